package plan

import (
	"github.com/quellgraph/quell/internal/idtable"
)

// Vocabulary is the shared handle to the words a result materialized beyond
// the persistent index vocabulary. Results of different operations may
// share one instance; it is immutable after creation.
type Vocabulary struct {
	words []string
}

func NewVocabulary(words ...string) *Vocabulary {
	return &Vocabulary{words: words}
}

func (v *Vocabulary) Size() int {
	if v == nil {
		return 0
	}
	return len(v.words)
}

func (v *Vocabulary) Word(i int) string {
	return v.words[i]
}

// VocabularyFromNonEmpty picks the non-empty one of two vocabularies.
// At most one of the two may be non-empty; merging is not supported.
func VocabularyFromNonEmpty(a, b *Vocabulary) *Vocabulary {
	if a.Size() > 0 {
		return a
	}
	return b
}

// Result is the immutable outcome of one operation evaluation.
type Result struct {
	table    *idtable.Table
	sortedOn []int
	vocab    *Vocabulary
}

func NewResult(table *idtable.Table, sortedOn []int, vocab *Vocabulary) *Result {
	return &Result{table: table, sortedOn: sortedOn, vocab: vocab}
}

func (r *Result) Table() *idtable.Table {
	return r.table
}

func (r *Result) SortedOn() []int {
	return r.sortedOn
}

func (r *Result) Vocabulary() *Vocabulary {
	return r.vocab
}

func (r *Result) NumRows() int {
	return r.table.NumRows()
}

func (r *Result) NumColumns() int {
	return r.table.NumColumns()
}
