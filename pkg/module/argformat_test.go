package module

import (
	"fmt"

	// nolint
	. "github.com/onsi/ginkgo/v2"
	// nolint
	. "github.com/onsi/gomega"
)

var _ = Describe("Argument formatting", func() {

	DescribeTable("Template styles",
		func(style ArgStyle, templates []string, value interface{}, expected []string) {
			format, err := NewArgFormat("name", style, templates...)
			Expect(err).NotTo(HaveOccurred())
			Expect(format.Render(value)).To(Equal(expected))
		},
		Entry("boolean true emits the flag",
			StyleBoolean, []string{"--superflag"}, true, []string{"--superflag"}),
		Entry("boolean false emits nothing",
			StyleBoolean, []string{"--superflag"}, false, []string{}),
		Entry("boolean nil emits nothing",
			StyleBoolean, []string{"--superflag"}, nil, []string{}),
		Entry("printf substitutes the verb",
			StylePrintf, []string{"--param=%s"}, "potatoes", []string{"--param=potatoes"}),
		Entry("printf without a verb passes through",
			StylePrintf, []string{"--param"}, "potatoes", []string{"--param"}),
		Entry("printf nil emits nothing",
			StylePrintf, []string{"--param=%s"}, nil, []string{}),
		Entry("printf expands multiple templates",
			StylePrintf, []string{"--param", "free-%s"}, "potatoes",
			[]string{"--param", "free-potatoes"}),
		Entry("format substitutes the placeholder",
			StyleFormat, []string{"--param={0}"}, "potatoes", []string{"--param=potatoes"}),
		Entry("format without a placeholder passes through",
			StyleFormat, []string{"--param"}, "potatoes", []string{"--param"}),
		Entry("format nil emits nothing",
			StyleFormat, []string{"--param={0}"}, nil, []string{}),
		Entry("format expands multiple templates",
			StyleFormat, []string{"--param", "free-{0}"}, "potatoes",
			[]string{"--param", "free-potatoes"}),
	)

	It("Renders through a custom function", func() {
		format, err := NewArgFormatFunc("piggies", func(value interface{}) []string {
			items := value.([]string)
			return []string{fmt.Sprintf("piggies=[%s,%s,%s]", items[0], items[1], items[2])}
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(format.Render([]string{"a", "b", "c"})).To(
			Equal([]string{"piggies=[a,b,c]"}))
		Expect(format.Render(nil)).To(Equal([]string{}))
	})

	It("Rejects a format without templates", func() {
		_, err := NewArgFormat("name", StylePrintf)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("needs at least one template"))
	})

	It("Rejects a nil render function", func() {
		_, err := NewArgFormatFunc("name", nil)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("needs a render function"))
	})

	It("Treats empty strings and zero numbers as falsy booleans", func() {
		format, err := NewArgFormat("name", StyleBoolean, "--flag")
		Expect(err).NotTo(HaveOccurred())
		Expect(format.Render("")).To(Equal([]string{}))
		Expect(format.Render(0)).To(Equal([]string{}))
		Expect(format.Render("yes")).To(Equal([]string{"--flag"}))
		Expect(format.Render(1)).To(Equal([]string{"--flag"}))
	})
})
