// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sam

// Query iterates over a stream or collection of records, optionally
// restricted by a predicate (spec's SUPPLEMENTED FEATURES item 1,
// promoting §9's "get_next/filter/close" design note to a concrete
// component). It follows the teacher's Iterator shape
// (sam.Iterator, bam.Iterator) rather than introducing a new idiom.
type Query interface {
	// Next returns the next record satisfying the query's restriction
	// and any filter, and whether one was available.
	Next() (*Record, bool)
	// Filter narrows subsequent Next results to records for which fn
	// returns true, in addition to the query's own restriction.
	Filter(fn func(*Record) bool)
	// Close releases any resource held by the query.
	Close() error
}

// GroupQuery iterates a fixed slice of records: Next yields records in
// input order, restricted by any filter. Grounded on
// original_source/include/pbbam/GroupQuery.h.
type GroupQuery struct {
	recs   []*Record
	pos    int
	filter func(*Record) bool
}

// NewGroupQuery returns a GroupQuery over recs.
func NewGroupQuery(recs []*Record) *GroupQuery {
	return &GroupQuery{recs: recs}
}

// Next implements Query.
func (q *GroupQuery) Next() (*Record, bool) {
	for q.pos < len(q.recs) {
		r := q.recs[q.pos]
		q.pos++
		if q.filter == nil || q.filter(r) {
			return r, true
		}
	}
	return nil, false
}

// Filter implements Query.
func (q *GroupQuery) Filter(fn func(*Record) bool) { q.filter = fn }

// Close implements Query.
func (q *GroupQuery) Close() error { return nil }

// GenomicIntervalQuery restricts a GroupQuery to records overlapping a
// half-open reference interval [Start, End) on a single reference ID.
// Grounded on original_source/include/pbbam/GenomicIntervalQuery.h.
type GenomicIntervalQuery struct {
	GroupQuery
	refID      int
	start, end int
}

// NewGenomicIntervalQuery returns a GenomicIntervalQuery over recs,
// restricted to records aligned to refID and overlapping [start, end).
func NewGenomicIntervalQuery(recs []*Record, refID, start, end int) *GenomicIntervalQuery {
	q := &GenomicIntervalQuery{refID: refID, start: start, end: end}
	q.recs = recs
	return q
}

// Next implements Query, restricting results to the query's interval.
func (q *GenomicIntervalQuery) Next() (*Record, bool) {
	for {
		r, ok := q.GroupQuery.Next()
		if !ok {
			return nil, false
		}
		if r.RefID() != q.refID {
			continue
		}
		if r.Start() >= q.end || r.End() <= q.start {
			continue
		}
		return r, true
	}
}

// ZmwQuery restricts a GroupQuery to records whose HoleNumber is a
// member of a requested set. Grounded on
// original_source/include/pbbam/ZmwGroupQuery.h.
type ZmwQuery struct {
	GroupQuery
	holes map[int]struct{}
}

// NewZmwQuery returns a ZmwQuery over recs, restricted to the given
// hole numbers.
func NewZmwQuery(recs []*Record, holeNumbers []int) *ZmwQuery {
	holes := make(map[int]struct{}, len(holeNumbers))
	for _, h := range holeNumbers {
		holes[h] = struct{}{}
	}
	q := &ZmwQuery{holes: holes}
	q.recs = recs
	return q
}

// Next implements Query, restricting results to the query's hole set.
func (q *ZmwQuery) Next() (*Record, bool) {
	for {
		r, ok := q.GroupQuery.Next()
		if !ok {
			return nil, false
		}
		hn, ok := r.HoleNumber()
		if !ok {
			continue
		}
		if _, want := q.holes[hn]; !want {
			continue
		}
		return r, true
	}
}

// QNameQuery groups consecutive records sharing a query name, used to
// pull a ZMW's SUBREAD/SCRAP family together. Grounded on
// original_source/include/pbbam/QNameQuery.h.
type QNameQuery struct {
	GroupQuery
}

// NewQNameQuery returns a QNameQuery over recs, which must already be
// sorted by Name for grouping to be contiguous.
func NewQNameQuery(recs []*Record) *QNameQuery {
	q := &QNameQuery{}
	q.recs = recs
	return q
}

// NextGroup returns the next run of consecutive records sharing a
// query name, and whether one was available.
func (q *QNameQuery) NextGroup() ([]*Record, bool) {
	r, ok := q.Next()
	if !ok {
		return nil, false
	}
	group := []*Record{r}
	for {
		start := q.pos
		next, ok := q.Next()
		if !ok {
			return group, true
		}
		if next.Name() != r.Name() {
			q.pos = start
			return group, true
		}
		group = append(group, next)
	}
}
