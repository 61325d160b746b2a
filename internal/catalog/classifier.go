// Package catalog sorts WebIDL declarations into GroupData buckets and
// renders them.
package catalog

import (
	"log/slog"

	"github.com/dgallion1/groupdata/internal/webidl"
)

// Reason describes why a declaration was left out of every bucket.
type Reason string

const (
	// ReasonUnsupported is used for kinds the catalog deliberately skips.
	ReasonUnsupported Reason = "unsupported"
	// ReasonUnrecognized is used for kinds the classifier does not know.
	ReasonUnrecognized Reason = "unrecognized"
)

// Diagnostic records a skipped declaration. One is recorded per occurrence.
type Diagnostic struct {
	Source string
	Kind   webidl.Kind
	Name   string
	Line   int
	Reason Reason
}

// Classifier routes declarations into buckets. State accumulates across Add
// calls so that names repeated in later sources are dropped.
type Classifier struct {
	policy      CallbackPolicy
	buckets     Buckets
	diagnostics []Diagnostic
	log         *slog.Logger
}

func NewClassifier(policy CallbackPolicy, log *slog.Logger) *Classifier {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Classifier{
		policy:  policy,
		buckets: NewBuckets(),
		log:     log,
	}
}

// Add classifies the top-level declarations of one source.
func (c *Classifier) Add(source string, decls []webidl.Declaration) {
	for _, d := range decls {
		c.classify(source, d)
	}
}

func (c *Classifier) classify(source string, d webidl.Declaration) {
	switch d.Kind {
	case webidl.KindDictionary:
		c.buckets.Dictionaries.InsertUnique(d)
	case webidl.KindTypedef, webidl.KindEnum:
		c.buckets.Types.InsertUnique(d)
	case webidl.KindInterface:
		c.buckets.Interfaces.InsertUnique(d)
	case webidl.KindCallback:
		switch c.policy {
		case MergeIntoTypes:
			c.buckets.Types.InsertUnique(d)
		case Separate:
			c.buckets.Callbacks.InsertUnique(d)
		}
	case webidl.KindException, webidl.KindSerializer, webidl.KindIterator, webidl.KindInterfaceMixin:
		c.skip(source, d, ReasonUnsupported)
	case webidl.KindEOF:
	default:
		c.skip(source, d, ReasonUnrecognized)
	}
}

func (c *Classifier) skip(source string, d webidl.Declaration, reason Reason) {
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Source: source,
		Kind:   d.Kind,
		Name:   d.Name,
		Line:   d.Line,
		Reason: reason,
	})
	if reason == ReasonUnsupported {
		c.log.Warn("ignoring declaration", "kind", string(d.Kind), "name", d.Name, "source", source, "line", d.Line)
		return
	}
	c.log.Warn("unknown declaration kind", "kind", string(d.Kind), "name", d.Name, "source", source, "line", d.Line)
}

// Policy returns the callback policy the classifier was built with.
func (c *Classifier) Policy() CallbackPolicy {
	return c.policy
}

// Result returns the accumulated buckets, each sorted by name.
func (c *Classifier) Result() Buckets {
	return c.buckets.Sorted()
}

// Diagnostics returns every skipped declaration in the order it was seen.
func (c *Classifier) Diagnostics() []Diagnostic {
	return c.diagnostics
}

// Classify runs a single classification pass and returns sorted buckets.
func Classify(decls []webidl.Declaration, policy CallbackPolicy, log *slog.Logger) Buckets {
	c := NewClassifier(policy, log)
	c.Add("", decls)
	return c.Result()
}
