package receipt

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltDB", func() {
	var db *BoltDB

	BeforeEach(func() {
		var err error
		db, err = NewBoltDB(filepath.Join(GinkgoT().TempDir(), "receipts.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(db.Close()).To(Succeed())
	})

	sampleReceipt := func(id string) *Receipt {
		total := int64(1161)
		return &Receipt{
			ID:         id,
			StoreName:  "BILLA",
			Date:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			Time:       "14:23",
			TotalCents: &total,
			Items: []Item{
				{RawText: "H-Milch 1,49 A", Name: "H-Milch", Quantity: 1, TotalPriceCents: 149, Confidence: 0.95},
			},
			Confidence: 0.9,
			CreatedAt:  time.Date(2024, 3, 15, 15, 0, 0, 0, time.UTC),
			UpdatedAt:  time.Date(2024, 3, 15, 15, 0, 0, 0, time.UTC),
		}
	}

	It("round-trips a receipt", func() {
		Expect(db.SaveReceipt(sampleReceipt("r1"))).To(Succeed())

		got, err := db.GetReceipt("r1")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.StoreName).To(Equal("BILLA"))
		Expect(*got.TotalCents).To(Equal(int64(1161)))
		Expect(got.Items).To(HaveLen(1))
		Expect(got.Items[0].TotalPriceCents).To(Equal(int64(149)))
		Expect(got.Date.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))).To(BeTrue())
	})

	It("overwrites on save with the same ID", func() {
		r := sampleReceipt("r1")
		Expect(db.SaveReceipt(r)).To(Succeed())

		r.Reviewed = true
		Expect(db.SaveReceipt(r)).To(Succeed())

		got, err := db.GetReceipt("r1")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Reviewed).To(BeTrue())
	})

	It("returns an error for an unknown ID", func() {
		_, err := db.GetReceipt("nope")
		Expect(err).To(HaveOccurred())
	})

	It("lists all saved receipts", func() {
		Expect(db.SaveReceipt(sampleReceipt("r1"))).To(Succeed())
		Expect(db.SaveReceipt(sampleReceipt("r2"))).To(Succeed())

		receipts, err := db.ListReceipts()
		Expect(err).NotTo(HaveOccurred())
		Expect(receipts).To(HaveLen(2))
	})

	It("returns an empty list when there are no receipts", func() {
		receipts, err := db.ListReceipts()
		Expect(err).NotTo(HaveOccurred())
		Expect(receipts).To(BeEmpty())
	})

	It("deletes a receipt", func() {
		Expect(db.SaveReceipt(sampleReceipt("r1"))).To(Succeed())
		Expect(db.DeleteReceipt("r1")).To(Succeed())

		_, err := db.GetReceipt("r1")
		Expect(err).To(HaveOccurred())
	})
})
