package registry

import (
	"errors"
	"testing"

	. "github.com/fulldump/biff"
	"github.com/spf13/afero"
)

func TestFind(t *testing.T) {
	Environment(func(s *Store, fs afero.Fs) {

		// Setup
		text := newJvmHandler("text.viewer")
		text.Types = []string{"text/plain"}
		text.Actions = []string{"Open"}
		text.Locales = nil
		text.ActionMap = nil
		AssertNil(s.Register(text))

		image := newNativeHandler("image.viewer")
		image.Types = []string{"IMAGE/PNG"}
		image.Suffixes = []string{".PNG"}
		AssertNil(s.Register(image))

		other := newJvmHandler("other.text")
		other.Types = []string{"TEXT/PLAIN"}
		AssertNil(s.Register(other))

		find := func(key Field, value string) []string {
			found := summaries{}
			AssertNil(s.Find("", key, value, &found))
			ids := []string{}
			for _, f := range found {
				ids = append(ids, f.ID)
			}
			return ids
		}

		// Check
		AssertEqual(find(FieldTypes, "text/plain"), []string{"text.viewer", "other.text"})
		AssertEqual(find(FieldTypes, "Text/Plain"), []string{"text.viewer", "other.text"})
		AssertEqual(find(FieldTypes, "text/plai"), []string{})
		AssertEqual(find(FieldSuffixes, ".png"), []string{"image.viewer"})
		AssertEqual(find(FieldActions, "Open"), []string{"text.viewer"})
		AssertEqual(find(FieldActions, "open"), []string{"other.text"})
		AssertEqual(find(FieldID, "image.viewer"), []string{"image.viewer"})
		AssertEqual(find(FieldID, "Image.Viewer"), []string{})
		AssertEqual(find(FieldID, "image"), []string{})
	})
}

func TestFind_Summary(t *testing.T) {
	Environment(func(s *Store, fs afero.Fs) {

		AssertNil(s.Register(newJvmHandler("a")))
		AssertNil(s.Register(newNativeHandler("b")))

		found := summaries{}
		AssertNil(s.Find("", FieldID, "b", &found))

		AssertEqual([]Summary(found), []Summary{{ID: "b", Flag: NativeFlag}})
	})
}

func TestFind_InvalidKey(t *testing.T) {
	Environment(func(s *Store, fs afero.Fs) {

		found := summaries{}
		for _, key := range []Field{FieldFlag, FieldSuite, FieldClass, FieldLocales, FieldActionMap, FieldAccesses} {
			err := s.Find("", key, "x", &found)
			AssertTrue(errors.Is(err, ErrInvalidArgument))
		}
	})
}

func TestFind_AccessFiltering(t *testing.T) {
	Environment(func(s *Store, fs afero.Fs) {

		// Setup
		h := newJvmHandler("restricted")
		h.Accesses = []string{"alpha"}
		AssertNil(s.Register(h))

		// Check
		found := summaries{}
		AssertNil(s.Find("alpha.suite", FieldTypes, "text/plain", &found))
		AssertEqual(len(found), 1)

		found = summaries{}
		AssertNil(s.Find("beta", FieldTypes, "text/plain", &found))
		AssertEqual(len(found), 0)

		_, err := s.GetHandler("alpha", "restricted", Exact)
		AssertNil(err)

		_, err = s.GetHandler("beta", "restricted", Exact)
		AssertTrue(errors.Is(err, ErrNotFound))

		// Suite and field lookups ignore access lists
		found = summaries{}
		AssertNil(s.FindForSuite(7, &found))
		AssertEqual(len(found), 1)

		list := &values{}
		AssertNil(s.GetHandlerField("restricted", FieldAccesses, list))
		AssertEqual(list.items, []string{"alpha"})
	})
}

func TestGetHandler_PrefixVsExact(t *testing.T) {
	Environment(func(s *Store, fs afero.Fs) {

		AssertNil(s.Register(newJvmHandler("com.example.App")))

		summary, err := s.GetHandler("", "com.example.app.Main", Prefix)
		AssertNil(err)
		AssertEqual(summary.ID, "com.example.App")

		summary, err = s.GetHandler("", "COM.EXAMPLE.APP", Exact)
		AssertNil(err)
		AssertEqual(summary.ID, "com.example.App")

		summary, err = s.GetHandler("", "com.example.App", Prefix)
		AssertNil(err)
		AssertEqual(summary.ID, "com.example.App")

		_, err = s.GetHandler("", "com.example", Exact)
		AssertTrue(errors.Is(err, ErrNotFound))

		_, err = s.GetHandler("", "com.example", Prefix)
		AssertTrue(errors.Is(err, ErrNotFound))

		_, err = s.GetHandler("", "com.example.App.Main", Exact)
		AssertTrue(errors.Is(err, ErrNotFound))

		_, err = s.GetHandler("", "", Exact)
		AssertTrue(errors.Is(err, ErrInvalidArgument))
	})
}

func TestGetHandler_PrefixSurrogatePair(t *testing.T) {
	Environment(func(s *Store, fs afero.Fs) {

		AssertNil(s.Register(newNativeHandler("a\uFFFD")))
		AssertNil(s.Register(newNativeHandler("b\U0001F600")))

		// The cut after two units splits the pair of the query
		_, err := s.GetHandler("", "a\U0001F600", Prefix)
		AssertTrue(errors.Is(err, ErrNotFound))

		summary, err := s.GetHandler("", "b\U0001F600.more", Prefix)
		AssertNil(err)
		AssertEqual(summary.ID, "b\U0001F600")
	})
}

func TestGetHandler_FirstMatch(t *testing.T) {
	Environment(func(s *Store, fs afero.Fs) {

		first := newJvmHandler("com.example")
		first.Suite = 1
		AssertNil(s.Register(first))
		second := newJvmHandler("com.example.App")
		second.Suite = 2
		AssertNil(s.Register(second))

		summary, err := s.GetHandler("", "com.example.App", Prefix)
		AssertNil(err)
		AssertEqual(summary.Suite, int32(1))
	})
}

func TestFindForSuite(t *testing.T) {
	Environment(func(s *Store, fs afero.Fs) {

		for i, id := range []string{"a", "b", "c"} {
			h := newJvmHandler(id)
			h.Suite = int32(i%2 + 1)
			AssertNil(s.Register(h))
		}
		AssertNil(s.Register(newNativeHandler("native")))

		found := summaries{}
		AssertNil(s.FindForSuite(1, &found))
		AssertEqual(len(found), 2)
		AssertEqual(found[0].ID, "a")
		AssertEqual(found[1].ID, "c")

		found = summaries{}
		AssertNil(s.FindForSuite(MissingInt, &found))
		AssertEqual(len(found), 0)
	})
}

func TestListValues(t *testing.T) {
	Environment(func(s *Store, fs afero.Fs) {

		// Setup
		a := newJvmHandler("Viewer")
		a.Types = []string{"text/plain", "TEXT/PLAIN", "text/html"}
		a.Actions = []string{"open", "Open"}
		a.Locales = nil
		a.ActionMap = nil
		AssertNil(s.Register(a))

		b := newJvmHandler("viewer")
		b.Types = []string{"Text/Html", "image/png"}
		b.Actions = []string{"open", "print"}
		b.Locales = nil
		b.ActionMap = nil
		b.Accesses = []string{"alpha"}
		AssertNil(s.Register(b))

		list := func(caller string, f Field) []string {
			v := &values{}
			AssertNil(s.ListValues(caller, f, v))
			return v.items
		}

		// Check
		AssertEqual(list("", FieldID), []string{"Viewer"})
		AssertEqual(list("", FieldTypes), []string{"text/plain", "text/html", "image/png"})
		AssertEqual(list("", FieldActions), []string{"open", "Open", "print"})
		AssertEqual(list("beta", FieldTypes), []string{"text/plain", "text/html"})

		err := s.ListValues("", FieldLocales, &values{})
		AssertTrue(errors.Is(err, ErrInvalidArgument))
	})
}

func TestGetHandlerField(t *testing.T) {
	Environment(func(s *Store, fs afero.Fs) {

		h := newJvmHandler("Viewer")
		h.Types = []string{"text/plain", "TEXT/PLAIN"}
		AssertNil(s.Register(h))

		list := &values{}
		AssertNil(s.GetHandlerField("viewer", FieldTypes, list))
		AssertEqual(list.items, []string{"text/plain", "TEXT/PLAIN"})

		list = &values{}
		AssertNil(s.GetHandlerField("viewer", FieldActionMap, list))
		AssertEqual(list.items, []string{"Open", "Edit"})

		list = &values{}
		AssertNil(s.GetHandlerField("viewer", FieldAccesses, list))
		AssertEqual(len(list.items), 0)

		err := s.GetHandlerField("view", FieldTypes, list)
		AssertTrue(errors.Is(err, ErrNotFound))

		err = s.GetHandlerField("viewer", FieldClass, list)
		AssertTrue(errors.Is(err, ErrInvalidArgument))

		err = s.GetHandlerField("", FieldTypes, list)
		AssertTrue(errors.Is(err, ErrInvalidArgument))
	})
}

func TestWalk(t *testing.T) {
	Environment(func(s *Store, fs afero.Fs) {

		h := newJvmHandler("full")
		h.Accesses = []string{"alpha"}
		AssertNil(s.Register(h))
		AssertNil(s.Register(newNativeHandler("native")))

		loaded := []*Handler{}
		AssertNil(s.Walk("alpha", func(h *Handler) error {
			loaded = append(loaded, h)
			return nil
		}))
		AssertEqual(len(loaded), 2)
		AssertEqual(loaded[0], h)

		stop := errors.New("stop")
		count := 0
		err := s.Walk("beta", func(h *Handler) error {
			count++
			return stop
		})
		AssertEqual(err, stop)
		AssertEqual(count, 1)
	})
}
