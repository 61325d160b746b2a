package catalog

import (
	"sort"
	"strings"
	"testing"

	"github.com/dgallion1/groupdata/internal/webidl"
	"github.com/google/go-cmp/cmp"
)

func decl(kind webidl.Kind, name string) webidl.Declaration {
	return webidl.Declaration{Kind: kind, Name: name}
}

func TestBucket_InsertUniqueFirstWins(t *testing.T) {
	var b Bucket
	if !b.InsertUnique(webidl.Declaration{Kind: webidl.KindInterface, Name: "Foo", Line: 1}) {
		t.Fatal("expected first insert to succeed")
	}
	if b.InsertUnique(webidl.Declaration{Kind: webidl.KindInterface, Name: "Foo", Line: 9, Partial: true}) {
		t.Error("expected duplicate insert to be rejected")
	}
	if b.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", b.Len())
	}
	if got := b.items[0].Line; got != 1 {
		t.Errorf("expected first occurrence (line 1) to win, got line %d", got)
	}
	if _, ok := b.seen["Foo"]; !ok {
		t.Error("expected Foo to be marked as seen")
	}
}

func TestBucket_SortedLeavesOriginal(t *testing.T) {
	var b Bucket
	for _, n := range []string{"Zeta", "alpha", "Beta", "Alpha"} {
		b.InsertUnique(decl(webidl.KindInterface, n))
	}
	sorted := b.Sorted()

	if diff := cmp.Diff([]string{"Zeta", "alpha", "Beta", "Alpha"}, b.Names()); diff != "" {
		t.Errorf("original bucket reordered (-want +got):\n%s", diff)
	}
	// Root collation groups letters case-insensitively, lowercase first.
	if diff := cmp.Diff([]string{"alpha", "Alpha", "Beta", "Zeta"}, sorted.Names()); diff != "" {
		t.Errorf("sorted order mismatch (-want +got):\n%s", diff)
	}
	if sorted.InsertUnique(decl(webidl.KindInterface, "Zeta")) {
		t.Error("expected sorted copy to keep membership")
	}
}

func TestClassify_Routing(t *testing.T) {
	decls := []webidl.Declaration{
		decl(webidl.KindInterface, "Node"),
		decl(webidl.KindDictionary, "EventInit"),
		decl(webidl.KindTypedef, "DOMTimeStamp"),
		decl(webidl.KindEnum, "ShadowRootMode"),
		decl(webidl.KindCallback, "EventHandlerNonNull"),
		decl(webidl.KindInterfaceMixin, "ParentNode"),
		decl(webidl.KindEOF, ""),
	}
	b := Classify(decls, Separate, nil)

	if diff := cmp.Diff([]string{"Node"}, b.Interfaces.Names()); diff != "" {
		t.Errorf("interfaces (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"EventInit"}, b.Dictionaries.Names()); diff != "" {
		t.Errorf("dictionaries (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"DOMTimeStamp", "ShadowRootMode"}, b.Types.Names()); diff != "" {
		t.Errorf("types (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"EventHandlerNonNull"}, b.Callbacks.Names()); diff != "" {
		t.Errorf("callbacks (-want +got):\n%s", diff)
	}
}

func TestClassify_CallbackPolicies(t *testing.T) {
	decls := []webidl.Declaration{
		decl(webidl.KindTypedef, "T"),
		decl(webidl.KindCallback, "Cb"),
		decl(webidl.KindCallback, "Another"),
	}

	tests := []struct {
		policy        CallbackPolicy
		wantTypes     []string
		wantCallbacks []string
	}{
		{Ignore, []string{"T"}, []string{}},
		{MergeIntoTypes, []string{"Another", "Cb", "T"}, []string{}},
		{Separate, []string{"T"}, []string{"Another", "Cb"}},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			b := Classify(decls, tt.policy, nil)
			if diff := cmp.Diff(tt.wantTypes, b.Types.Names()); diff != "" {
				t.Errorf("types (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantCallbacks, b.Callbacks.Names()); diff != "" {
				t.Errorf("callbacks (-want +got):\n%s", diff)
			}

			out := Render("X", b, tt.policy)
			hasSection := strings.Contains(out, `"callbacks":`)
			if hasSection != (tt.policy == Separate) {
				t.Errorf("callbacks section present=%v under policy %s", hasSection, tt.policy)
			}
		})
	}
}

func TestClassify_DedupPerBucket(t *testing.T) {
	decls := []webidl.Declaration{
		decl(webidl.KindInterface, "Foo"),
		decl(webidl.KindInterface, "Foo"),
		decl(webidl.KindDictionary, "Foo"),
		decl(webidl.KindTypedef, "Foo"),
		decl(webidl.KindEnum, "Foo"),
	}
	b := Classify(decls, Separate, nil)
	if b.Interfaces.Len() != 1 || b.Dictionaries.Len() != 1 || b.Types.Len() != 1 {
		t.Errorf("expected one Foo per bucket, got interfaces=%d dictionaries=%d types=%d",
			b.Interfaces.Len(), b.Dictionaries.Len(), b.Types.Len())
	}
}

func TestClassifier_AccumulatesAcrossSources(t *testing.T) {
	c := NewClassifier(Separate, nil)
	c.Add("a.idl", []webidl.Declaration{decl(webidl.KindInterface, "Foo"), decl(webidl.KindEOF, "")})
	c.Add("b.idl", []webidl.Declaration{decl(webidl.KindInterface, "Foo"), decl(webidl.KindInterface, "Bar"), decl(webidl.KindEOF, "")})

	b := c.Result()
	if diff := cmp.Diff([]string{"Bar", "Foo"}, b.Interfaces.Names()); diff != "" {
		t.Errorf("interfaces (-want +got):\n%s", diff)
	}
	if len(c.Diagnostics()) != 0 {
		t.Errorf("expected no diagnostics for duplicates, got %+v", c.Diagnostics())
	}
}

func TestClassifier_Diagnostics(t *testing.T) {
	c := NewClassifier(Separate, nil)
	c.Add("spec.html", []webidl.Declaration{
		{Kind: webidl.KindException, Name: "BadThing", Line: 3},
		{Kind: webidl.KindSerializer, Name: "s"},
		{Kind: webidl.KindIterator, Name: "it"},
		{Kind: webidl.KindInterfaceMixin, Name: "Mixin"},
		{Kind: webidl.KindNamespace, Name: "console"},
		{Kind: webidl.Kind("something new"), Name: "X"},
		{Kind: webidl.KindException, Name: "BadThing", Line: 7},
	})

	want := []Diagnostic{
		{Source: "spec.html", Kind: webidl.KindException, Name: "BadThing", Line: 3, Reason: ReasonUnsupported},
		{Source: "spec.html", Kind: webidl.KindSerializer, Name: "s", Reason: ReasonUnsupported},
		{Source: "spec.html", Kind: webidl.KindIterator, Name: "it", Reason: ReasonUnsupported},
		{Source: "spec.html", Kind: webidl.KindInterfaceMixin, Name: "Mixin", Reason: ReasonUnsupported},
		{Source: "spec.html", Kind: webidl.KindNamespace, Name: "console", Reason: ReasonUnrecognized},
		{Source: "spec.html", Kind: webidl.Kind("something new"), Name: "X", Reason: ReasonUnrecognized},
		{Source: "spec.html", Kind: webidl.KindException, Name: "BadThing", Line: 7, Reason: ReasonUnsupported},
	}
	if diff := cmp.Diff(want, c.Diagnostics()); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}

	b := c.Result()
	for _, bucket := range []*Bucket{b.Types, b.Interfaces, b.Dictionaries, b.Callbacks} {
		if bucket.Len() != 0 {
			t.Errorf("expected skipped declarations to stay out of buckets, got %v", bucket.Names())
		}
	}
}

func TestClassify_SortedOutput(t *testing.T) {
	names := []string{"Zoo", "abc", "Mid", "URL", "Url", "a", "B"}
	var decls []webidl.Declaration
	for _, n := range names {
		decls = append(decls, decl(webidl.KindInterface, n))
	}
	b := Classify(decls, Separate, nil)
	got := b.Interfaces.Names()
	if len(got) != len(names) {
		t.Fatalf("expected %d names, got %d", len(names), len(got))
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return strings.ToLower(got[i]) < strings.ToLower(got[j]) }) {
		t.Errorf("expected case-folded alphabetical order, got %v", got)
	}
}

func TestRender_EmptyCatalog(t *testing.T) {
	want := `        "API NAME HERE": {
          "overview":   [],
          "guides":     [],
          "interfaces": [],
          "dictionaries": [],
          "types":      [],
          "methods":    [],
          "properties": [],
          "events":     [],
          "callbacks":  []
        }
`
	got := Render("", NewBuckets(), Separate)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_MultiEntryAlignment(t *testing.T) {
	b := NewBuckets()
	b.Interfaces.InsertUnique(decl(webidl.KindInterface, "BaseAudioContext"))
	b.Interfaces.InsertUnique(decl(webidl.KindInterface, "AudioNode"))
	b.Interfaces.InsertUnique(decl(webidl.KindInterface, "GainNode"))
	b.Dictionaries.InsertUnique(decl(webidl.KindDictionary, "AudioNodeOptions"))
	b.Types.InsertUnique(decl(webidl.KindEnum, "ChannelCountMode"))
	b.Types.InsertUnique(decl(webidl.KindTypedef, "AudioTimestamp"))

	want := `        "Web Audio API": {
          "overview":   [],
          "guides":     [],
          "interfaces": [ "AudioNode",
                          "BaseAudioContext",
                          "GainNode" ],
          "dictionaries": [ "AudioNodeOptions" ],
          "types":      [ "AudioTimestamp",
                          "ChannelCountMode" ],
          "methods":    [],
          "properties": [],
          "events":     [],
        }
`
	got := Render("Web Audio API", b, MergeIntoTypes)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_Idempotent(t *testing.T) {
	b := Classify([]webidl.Declaration{
		decl(webidl.KindInterface, "B"),
		decl(webidl.KindInterface, "A"),
		decl(webidl.KindCallback, "C"),
	}, Separate, nil)

	first := Render("API", b, Separate)
	second := Render("API", b, Separate)
	if first != second {
		t.Errorf("expected identical output, got:\n%s\nand:\n%s", first, second)
	}
}

func TestRender_SeparateEmptyCallbacks(t *testing.T) {
	b := Classify([]webidl.Declaration{
		decl(webidl.KindInterface, "Foo"),
		decl(webidl.KindDictionary, "Bar"),
		decl(webidl.KindEOF, ""),
	}, Separate, nil)
	out := Render("API", b, Separate)

	for _, want := range []string{
		`"interfaces": [ "Foo" ]`,
		`"dictionaries": [ "Bar" ]`,
		`"callbacks":  []`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRender_SortsOutOfOrderInterfaces(t *testing.T) {
	b := Classify([]webidl.Declaration{
		decl(webidl.KindInterface, "Z"),
		decl(webidl.KindInterface, "A"),
	}, Separate, nil)
	out := Render("API", b, Separate)

	a := strings.Index(out, `"A"`)
	z := strings.Index(out, `"Z"`)
	if a < 0 || z < 0 || a > z {
		t.Errorf("expected A before Z, got:\n%s", out)
	}
	if !strings.Contains(out, `"interfaces": [ "A",`) {
		t.Errorf("expected A on the declaration line, got:\n%s", out)
	}
}

func TestClassifier_DuplicateAcrossSources(t *testing.T) {
	c := NewClassifier(Separate, nil)
	c.Add("one.idl", []webidl.Declaration{decl(webidl.KindInterface, "Foo")})
	c.Add("two.idl", []webidl.Declaration{{Kind: webidl.KindInterface, Name: "Foo", Partial: true}})
	out := Render("API", c.Result(), Separate)

	if n := strings.Count(out, `"Foo"`); n != 1 {
		t.Errorf("expected Foo exactly once, got %d times:\n%s", n, out)
	}
}

func TestClassifier_ExceptionSkipped(t *testing.T) {
	c := NewClassifier(Separate, nil)
	c.Add("legacy.idl", []webidl.Declaration{decl(webidl.KindException, "BadThing")})
	out := Render("API", c.Result(), Separate)

	if strings.Contains(out, "BadThing") {
		t.Errorf("expected BadThing to be left out, got:\n%s", out)
	}
	diags := c.Diagnostics()
	if len(diags) != 1 || diags[0].Name != "BadThing" {
		t.Errorf("expected one diagnostic naming BadThing, got %+v", diags)
	}
}

func TestParseCallbackPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    CallbackPolicy
		wantErr bool
	}{
		{"", Separate, false},
		{"callback", Separate, false},
		{"CALLBACK", Separate, false},
		{"type", MergeIntoTypes, false},
		{"Ignore", Ignore, false},
		{"both", Separate, true},
	}
	for _, tt := range tests {
		got, err := ParseCallbackPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCallbackPolicy(%q): unexpected error state: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCallbackPolicy(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}
