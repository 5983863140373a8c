package receipt

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		baseDir string
		storage *LocalStorage
	)

	BeforeEach(func() {
		baseDir = GinkgoT().TempDir()

		var err error
		storage, err = NewLocalStorage(filepath.Join(baseDir, "receipts"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("creates the base directory", func() {
		info, err := os.Stat(filepath.Join(baseDir, "receipts"))
		Expect(err).NotTo(HaveOccurred())
		Expect(info.IsDir()).To(BeTrue())
	})

	It("saves and retrieves a file", func() {
		path, err := storage.Save("id_bon.jpg", []byte("image-data"))
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("id_bon.jpg"))

		data, err := storage.Get(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte("image-data")))
	})

	It("deletes a file", func() {
		path, err := storage.Save("id_bon.jpg", []byte("image-data"))
		Expect(err).NotTo(HaveOccurred())

		Expect(storage.Delete(path)).To(Succeed())

		_, err = storage.Get(path)
		Expect(err).To(HaveOccurred())
	})

	It("returns an error for a missing file", func() {
		_, err := storage.Get("missing.jpg")
		Expect(err).To(HaveOccurred())
	})

	DescribeTable("rejecting paths that escape the base directory",
		func(path string) {
			_, err := storage.Get(path)
			Expect(err).To(MatchError(ContainSubstring("invalid storage path")))
		},
		Entry("parent traversal", "../outside.jpg"),
		Entry("nested traversal", "sub/../../outside.jpg"),
	)

	It("refuses to save outside the base directory", func() {
		_, err := storage.Save("../escape.jpg", []byte("x"))
		Expect(err).To(HaveOccurred())

		_, statErr := os.Stat(filepath.Join(baseDir, "escape.jpg"))
		Expect(os.IsNotExist(statErr)).To(BeTrue())
	})
})
