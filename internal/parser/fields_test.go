package parser

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func plinesFrom(texts ...string) []pline {
	lines := make([]pline, 0, len(texts))
	for i, t := range texts {
		lines = append(lines, pline{text: t, confidence: 0.9, source: i})
	}
	return lines
}

var _ = Describe("field extractors", func() {
	var table *PatternTable

	BeforeEach(func() {
		var err error
		table, err = NewPatternTable(DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("extractStore", func() {
		It("prefers a known retailer over a pattern match", func() {
			store := table.extractStore(plinesFrom(
				"Schulze Handels GmbH",
				"REWE Markt 0815",
			))
			Expect(store).To(Equal("REWE"))
		})

		It("falls back to the legal-entity pattern", func() {
			store := table.extractStore(plinesFrom(
				"Getraenke Quelle GmbH",
				"Bahnhofstr. 2",
			))
			Expect(store).To(Equal("Getraenke Quelle"))
		})

		It("falls back to a generic business name", func() {
			store := table.extractStore(plinesFrom(
				"Kiosk am Eck",
				"Parkweg 9",
			))
			Expect(store).To(Equal("Kiosk am Eck"))
		})

		It("only consults the first five lines", func() {
			store := table.extractStore(plinesFrom(
				"12345",
				"67890",
				"111213",
				"141516",
				"171819",
				"EDEKA Zentrale",
			))
			Expect(store).To(BeEmpty())
		})

		It("returns empty when nothing matches", func() {
			Expect(table.extractStore(nil)).To(BeEmpty())
		})
	})

	Describe("extractDate", func() {
		DescribeTable("normalizing the supported formats",
			func(line, expected string) {
				Expect(table.extractDate(plinesFrom(line))).To(Equal(expected))
			},
			Entry("dotted", "Datum: 15.03.2024", "2024-03-15"),
			Entry("dashed", "15-03-2024", "2024-03-15"),
			Entry("ISO", "2024-03-15", "2024-03-15"),
			Entry("two-digit year", "Datum: 15.03.24", "2024-03-15"),
			Entry("slashed", "15/03/2024", "2024-03-15"),
		)

		It("skips shapes that are not real dates", func() {
			Expect(table.extractDate(plinesFrom("99.99.2024"))).To(BeEmpty())
		})

		It("takes the first date in line order", func() {
			date := table.extractDate(plinesFrom("01.01.2024", "31.12.2024"))
			Expect(date).To(Equal("2024-01-01"))
		})
	})

	Describe("extractTime", func() {
		It("captures a clock time with seconds", func() {
			Expect(table.extractTime(plinesFrom("15.03.2024 14:23:05"))).To(Equal("14:23:05"))
		})

		It("returns empty when no time is present", func() {
			Expect(table.extractTime(plinesFrom("no clocks here"))).To(BeEmpty())
		})
	})

	Describe("extractTotal", func() {
		It("prefers the bottom-most keyword line", func() {
			res := table.extractTotal(plinesFrom(
				"ZWISCHENSUMME 9,99",
				"SUMME 11,61",
			))
			Expect(res.value).NotTo(BeNil())
			Expect(res.value.String()).To(Equal("11.61"))
		})

		It("takes the last amount on the keyword line", func() {
			res := table.extractTotal(plinesFrom("SUMME 2 Posten 11,61"))
			Expect(res.value).NotTo(BeNil())
			Expect(res.value.String()).To(Equal("11.61"))
		})

		It("falls back to the last amount-bearing line", func() {
			res := table.extractTotal(plinesFrom(
				"Brot 2,99",
				"Milch 1,49",
				"Gesamtbetrag unleserlich",
			))
			Expect(res.value).NotTo(BeNil())
			Expect(res.value.String()).To(Equal("1.49"))
		})

		It("finds nothing in amount-free input", func() {
			res := table.extractTotal(plinesFrom("nur Text", "keine Zahlen"))
			Expect(res.value).To(BeNil())
		})
	})
})
