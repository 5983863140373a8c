package parser

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewPatternTable", func() {
	It("compiles the default configuration", func() {
		table, err := NewPatternTable(DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(table).NotTo(BeNil())
	})

	It("rejects an uncompilable store pattern", func() {
		cfg := DefaultConfig()
		cfg.StorePatterns = append(cfg.StorePatterns, `([unclosed`)
		_, err := NewPatternTable(cfg)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("store pattern"))
	})

	It("rejects an uncompilable date pattern", func() {
		cfg := DefaultConfig()
		cfg.DateFormats = []DateFormat{{Pattern: `(\d{2}`, Layout: "02.01.2006"}}
		_, err := NewPatternTable(cfg)
		Expect(err).To(HaveOccurred())
	})

	It("rejects an item pattern without a price group", func() {
		cfg := DefaultConfig()
		cfg.ItemPatterns = []ItemPattern{{Pattern: `^(.+)$`, NameGroup: 1}}
		_, err := NewPatternTable(cfg)
		Expect(err).To(HaveOccurred())
	})

	It("rejects an item pattern with an out-of-range group", func() {
		cfg := DefaultConfig()
		cfg.ItemPatterns = []ItemPattern{{Pattern: `^(.+?)\s+(` + amountFragment + `)$`, NameGroup: 1, TotalPriceGroup: 7}}
		_, err := NewPatternTable(cfg)
		Expect(err).To(HaveOccurred())
	})

	Describe("isSkipLine", func() {
		var table *PatternTable

		BeforeEach(func() {
			var err error
			table, err = NewPatternTable(DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
		})

		DescribeTable("classifying boilerplate",
			func(line string, skip bool) {
				Expect(table.isSkipLine(line)).To(Equal(skip))
			},
			Entry("separator dashes", "--------------------------------", true),
			Entry("separator equals", "================", true),
			Entry("bare date", "15.03.2024", true),
			Entry("bare date and time", "15.03.2024 14:23", true),
			Entry("bare time", "14:23:05", true),
			Entry("total line", "SUMME EUR 11,61", true),
			Entry("payment line", "BAR EUR 20,00", true),
			Entry("tax line", "MwSt 10% = 1,06", true),
			Entry("footer boilerplate", "Vielen Dank für Ihren Einkauf!", true),
			Entry("bon number", "0123 456 789 0123", true),
			Entry("regular item line", "Bio Vollkornbrot 2,99 A", false),
			Entry("quantity item line", "2 x 1,19 Joghurt Natur 2,38 A", false),
			Entry("item containing a payment word", "Barilla Spaghetti 1,79 A", false),
			Entry("item containing a tax fragment", "Senf Augustiner 1,99 B", false),
			Entry("standalone payment word", "BAR", true),
		)
	})

	Describe("matchRetailer", func() {
		var table *PatternTable

		BeforeEach(func() {
			var err error
			table, err = NewPatternTable(DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
		})

		It("matches a retailer on word boundaries", func() {
			name, ok := table.matchRetailer("BILLA PLUS Dankt")
			Expect(ok).To(BeTrue())
			Expect(name).To(Equal("BILLA"))
		})

		It("matches case-insensitively", func() {
			name, ok := table.matchRetailer("Rewe Markt GmbH")
			Expect(ok).To(BeTrue())
			Expect(name).To(Equal("REWE"))
		})

		It("does not match inside other words", func() {
			_, ok := table.matchRetailer("BILLARD CLUB")
			Expect(ok).To(BeFalse())
		})
	})
})
