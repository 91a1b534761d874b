package msgsync_test

import (
	"bytes"

	. "github.com/onsi/ginkgo"
	"github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"

	"github.com/loopcontext/msgsync"
)

const catalogPath = "/app/i18n/en.json"

// sync runs one full reconciliation against the in-memory project.
func sync(fs afero.Fs, opts msgsync.Options, sources ...string) (msgsync.Result, string, error) {
	var out bytes.Buffer
	rec := msgsync.NewReconciler(msgsync.NewFileStore(fs, catalogPath), &out, opts)
	catalog, err := rec.Load()
	if err != nil {
		return msgsync.Result{}, out.String(), err
	}
	found, err := msgsync.NewExtractor(fs).ExtractFiles(sources)
	if err != nil {
		return msgsync.Result{}, out.String(), err
	}
	res, err := rec.Apply(catalog, found)
	return res, out.String(), err
}

func readCatalog(fs afero.Fs) msgsync.Catalog {
	c, err := msgsync.NewFileStore(fs, catalogPath).Load()
	Expect(err).NotTo(HaveOccurred())
	return c
}

var _ = Describe("Translation sync", func() {
	var fs afero.Fs
	all := msgsync.Options{AutoAdd: true, AutoRemove: true}

	writeFile := func(path, content string) {
		Expect(afero.WriteFile(fs, path, []byte(content), 0o644)).To(Succeed())
	}

	BeforeEach(func() {
		fs = afero.NewMemMapFs()
		writeFile(catalogPath, `{}`)
	})

	Context("with auto-add and auto-remove", func() {
		It("adds a new literal as its own translation", func() {
			writeFile("/app/src/a.js", `label = _t('hello world');`)

			res, out, err := sync(fs, all, "/app/src/a.js")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(msgsync.StatusApplied))
			Expect(out).To(HaveSuffix("Updated " + catalogPath + "\n"))
			Expect(readCatalog(fs)).To(Equal(msgsync.Catalog{"hello world": "hello world"}))
		})

		It("is idempotent", func() {
			writeFile(catalogPath, `{"gone": "x", "kept|one": "k", "kept|other": "ks"}`)
			writeFile("/app/src/a.js", `_t("kept"); _td('fresh', n); _tJsx(`+"`markup`"+`)`)

			_, _, err := sync(fs, all, "/app/src/a.js")
			Expect(err).NotTo(HaveOccurred())
			first, err := afero.ReadFile(fs, catalogPath)
			Expect(err).NotTo(HaveOccurred())

			res, out, err := sync(fs, all, "/app/src/a.js")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(msgsync.StatusClean))
			Expect(out).To(BeEmpty())
			second, err := afero.ReadFile(fs, catalogPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})

		It("treats plural variants as their base key and removes all of them", func() {
			writeFile(catalogPath, `{"cat|one": "1 cat", "cat|other": "cats", "dog|one": "1 dog", "dog|other": "dogs"}`)
			writeFile("/app/src/a.js", `_td('dog', n)`)

			res, out, err := sync(fs, all, "/app/src/a.js")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Removed:\n--------\ncat\n"))
			Expect(out).NotTo(ContainSubstring("dog"))
			Expect(res.Deleted).To(ConsistOf("cat|one", "cat|other"))
			Expect(readCatalog(fs)).To(Equal(msgsync.Catalog{"dog|one": "1 dog", "dog|other": "dogs"}))
		})
	})

	Context("in report-only mode", func() {
		It("lists the differences, exits 1 and leaves the file alone", func() {
			writeFile(catalogPath, `{"old": "Old"}`)
			writeFile("/app/src/a.js", `_t('new string')`)

			res, out, err := sync(fs, msgsync.Options{}, "/app/src/a.js")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status.ExitCode()).To(Equal(1))
			Expect(out).To(ContainSubstring("Add:\n----\nnew string"))
			Expect(out).To(ContainSubstring("Removed:\n--------\nold"))

			data, err := afero.ReadFile(fs, catalogPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`{"old": "Old"}`))
		})
	})

	Describe("extraction", func() {
		var ext *msgsync.Extractor

		BeforeEach(func() {
			ext = msgsync.NewExtractor(fs)
		})

		It("merges concatenated literals into one key", func() {
			keys := ext.Extract("_t('foo' + 'bar')\n_t(\"multi \" +\n    \"line\")")
			Expect(keys.Sorted()).To(Equal([]string{"foobar", "multi line"}))
			Expect(keys.Has("foo")).To(BeFalse())
			Expect(keys.Has("bar")).To(BeFalse())
		})

		It("unescapes escaped quotes", func() {
			keys := ext.Extract(`_t('it\'s') + _t("say \"hi\"")`)
			Expect(keys.Sorted()).To(ConsistOf("it's", `say "hi"`))
		})

		It("ignores computed keys", func() {
			Expect(ext.Extract("_t(key); _t(`a${b}` + c)")).To(BeEmpty())
		})

		table.DescribeTable("detects every translation call",
			func(src, want string) {
				Expect(ext.Extract(src).Has(want)).To(BeTrue())
			},
			table.Entry("_t", `_t("plain")`, "plain"),
			table.Entry("_td", `_td('pluralized', count)`, "pluralized"),
			table.Entry("_tJsx", "_tJsx(`with <b>markup</b>`, {b})", "with <b>markup</b>"),
		)
	})

	It("refuses a source that is not UTF-8 and leaves the catalog alone", func() {
		writeFile("/app/src/latin1.js", "_t('caf\xe9')")

		_, out, err := sync(fs, all, "/app/src/latin1.js")
		Expect(err).To(MatchError(msgsync.ErrInvalidUTF8))
		Expect(out).To(BeEmpty())

		data, err := afero.ReadFile(fs, catalogPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`{}`))
	})

	It("reports an unreadable source file", func() {
		_, _, err := sync(fs, all, "/app/src/missing.js")
		var srcErr *msgsync.SourceError
		Expect(err).To(BeAssignableToTypeOf(srcErr))
	})
})
