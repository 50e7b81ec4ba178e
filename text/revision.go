// The undo/redo machinery below generalizes the linear action stack in
// the vis editor by Marc André Tanner (https://github.com/martanne/vis,
// ported to Go in this project's ancestor as package undo) into a tree:
// instead of discarding redo history the moment a new edit is made
// after an undo, each snapshot opens a new child of whichever revision
// is current, so earlier branches stay reachable via Earlier/Later and
// Restore.
package text

import "time"

// revision is one node in the undo tree. Its changes record the edits
// that were applied, in order, to move from its parent's state to its
// own.
type revision struct {
	id        int
	timestamp time.Time
	sealed    bool

	changes []*change
	// applied is how much of changes is currently live, for the one
	// revision that's still open (unsealed): a fresh edit after an
	// Undo discards the stale tail beyond applied rather than
	// appending after it, and Redo walks it back forward. Once a
	// revision is sealed, its whole changes slice is always
	// considered applied and this field is no longer consulted.
	applied int

	parent   *revision
	children []*revision // creation order; last is most recently created
}

func newRevision(id int, parent *revision) *revision {
	return &revision{id: id, parent: parent}
}

// push appends the change to this (necessarily unsealed) revision,
// first discarding any undone-but-not-redone tail.
func (r *revision) push(c *change) {
	r.changes = append(r.changes[:r.applied], c)
	r.applied = len(r.changes)
}

// applyForward re-applies every change in this revision, in the order
// they were originally made, and returns the position reported by the
// last one.
func (r *revision) applyForward() int {
	pos := int(InvalidPosition)
	for _, c := range r.changes {
		c.apply()
		pos = c.posOnApply()
	}
	return pos
}

// revertAll reverts every change in this revision, in reverse order,
// and returns the position reported by the last one reverted (the
// earliest change chronologically).
func (r *revision) revertAll() int {
	pos := int(InvalidPosition)
	for i := len(r.changes) - 1; i >= 0; i-- {
		c := r.changes[i]
		c.revert()
		pos = c.posOnRevert()
	}
	return pos
}

// Snapshot seals the current revision, giving it a timestamp and
// discarding any undone tail beyond what's applied, then opens a
// fresh empty child to become current. It is a no-op when the current
// revision has no applied changes yet.
func (t *Text) Snapshot() {
	if t.current.applied == 0 {
		return
	}
	t.current.changes = t.current.changes[:t.current.applied]
	t.current.sealed = true
	t.current.timestamp = t.now()
	t.nextRevID++
	child := newRevision(t.nextRevID, t.current)
	t.current.children = append(t.current.children, child)
	t.current = child
	t.cache = insertCache{}
}

// openForEdit ensures t.current is an unsealed, non-root revision
// ready to receive a new change. Undo can walk current past the open
// revision onto a sealed ancestor (or all the way to the permanently
// empty root sentinel), and Restore can land current on any sealed
// revision in the tree; pushing a change onto either would corrupt an
// already-sealed node. Insert and Delete call this before constructing
// their change so that an edit made from such a state opens a fresh
// sibling branch instead. Opening a new revision also breaks the
// contiguous-insert cache, the same way Snapshot does, since the
// piece it cached belongs to a revision that is no longer current.
func (t *Text) openForEdit() {
	if t.current != t.root && !t.current.sealed {
		return
	}
	t.nextRevID++
	child := newRevision(t.nextRevID, t.current)
	t.current.children = append(t.current.children, child)
	t.current = child
	t.cache = insertCache{}
}

// Undo reverts the most recent change. While current is still the
// open, unsealed revision, only its most-recently-applied change is
// undone at a time, so a burst of edits in one revision remains
// individually undoable. Once current has nothing left applied, Undo
// walks up and reverts the whole of the nearest ancestor with changes
// in one step, landing current on that ancestor's parent. It returns
// InvalidPosition if there's no earlier state.
func (t *Text) Undo() int {
	t.cache = insertCache{}
	cur := t.current
	open := !cur.sealed
	remaining := cur.applied
	if !open {
		remaining = len(cur.changes)
	}
	for remaining == 0 {
		if cur.parent == nil {
			return int(InvalidPosition)
		}
		cur = cur.parent
		open = false
		remaining = len(cur.changes)
	}
	if open {
		c := cur.changes[cur.applied-1]
		c.revert()
		cur.applied--
		t.current = cur
		t.size -= c.byteDelta()
		t.invalidateFrom(c.posOnRevert())
		return c.posOnRevert()
	}
	delta := 0
	for _, c := range cur.changes {
		delta += c.byteDelta()
	}
	pos := cur.revertAll()
	t.size -= delta
	t.current = cur.parent
	t.invalidateFrom(pos)
	return pos
}

// Redo re-applies whatever Undo most recently reverted. If current is
// still the open revision and has an undone tail, the next change in
// that tail is re-applied in place; otherwise Redo descends into the
// most recently created child of current and applies the whole of it
// forward. It returns InvalidPosition if there's nothing to redo.
func (t *Text) Redo() int {
	t.cache = insertCache{}
	cur := t.current
	if !cur.sealed && cur.applied < len(cur.changes) {
		c := cur.changes[cur.applied]
		c.apply()
		cur.applied++
		t.size += c.byteDelta()
		t.invalidateFrom(c.posOnApply())
		return c.posOnApply()
	}
	if n := len(cur.children); n > 0 {
		child := cur.children[n-1]
		pos := child.applyForward()
		child.applied = len(child.changes)
		delta := 0
		for _, c := range child.changes {
			delta += c.byteDelta()
		}
		t.size += delta
		t.current = child
		t.invalidateFrom(pos)
		return pos
	}
	return int(InvalidPosition)
}

// Earlier walks up to count revisions toward the root, stopping early
// if it runs out of ancestors. It returns the position of the last
// change reverted, or InvalidPosition if zero steps were possible.
func (t *Text) Earlier(count int) int {
	pos := int(InvalidPosition)
	for i := 0; i < count; i++ {
		p := t.Undo()
		if p == int(InvalidPosition) {
			break
		}
		pos = p
	}
	return pos
}

// Later walks down to count revisions, always following the most
// recently created child, stopping early if it runs out. It returns
// the position of the last change applied, or InvalidPosition if zero
// steps were possible.
func (t *Text) Later(count int) int {
	pos := int(InvalidPosition)
	for i := 0; i < count; i++ {
		p := t.Redo()
		if p == int(InvalidPosition) {
			break
		}
		pos = p
	}
	return pos
}

// State returns the timestamp of the current revision: the time
// Snapshot sealed it, or the zero time while it is still open.
func (t *Text) State() time.Time {
	return t.current.timestamp
}

// HistoryGet returns the position of the change at index, counting
// back from the most recent (index 0) along the path from the root to
// the current revision. It returns InvalidPosition if index is out of
// range.
func (t *Text) HistoryGet(index int) int {
	chain := t.chronological()
	i := len(chain) - 1 - index
	if i < 0 || i >= len(chain) {
		return int(InvalidPosition)
	}
	return chain[i].pos
}

// chronological flattens the changes from the root down to the
// current revision, in the order they were made. For the current
// revision itself, only its applied prefix counts: an undone tail
// hasn't happened as far as history is concerned.
func (t *Text) chronological() []*change {
	var path []*revision
	for r := t.current; r != nil; r = r.parent {
		path = append(path, r)
	}
	var all []*change
	for i := len(path) - 1; i >= 0; i-- {
		r := path[i]
		changes := r.changes
		if r == t.current && !r.sealed {
			changes = r.changes[:r.applied]
		}
		all = append(all, changes...)
	}
	return all
}

// Restore moves the text to the state of whichever revision's
// timestamp is closest to at, ties broken toward the earlier one. The
// candidates are the sealed revisions (those a Snapshot has finalized)
// and the root, which stands for the loaded state and carries the zero
// time as its timestamp.
func (t *Text) Restore(at time.Time) int {
	target := t.closestSealed(at)
	if target == nil {
		return int(InvalidPosition)
	}
	return t.moveTo(target)
}

func (t *Text) closestSealed(at time.Time) *revision {
	var best *revision
	var bestDiff time.Duration
	t.walkSealed(t.root, func(r *revision) {
		d := at.Sub(r.timestamp)
		if d < 0 {
			d = -d
		}
		if best == nil || d < bestDiff || (d == bestDiff && r.timestamp.Before(best.timestamp)) {
			best, bestDiff = r, d
		}
	})
	return best
}

func (t *Text) walkSealed(r *revision, f func(*revision)) {
	if r.sealed || r == t.root {
		f(r)
	}
	for _, c := range r.children {
		t.walkSealed(c, f)
	}
}

// moveTo walks from current to target via their lowest common
// ancestor, reverting revisions on the way up and applying them
// forward on the way down, and returns the position of the last
// change touched.
func (t *Text) moveTo(target *revision) int {
	lca := lowestCommonAncestor(t.current, target)

	pos := int(InvalidPosition)
	for r := t.current; r != lca; r = r.parent {
		changes := r.changes
		if r == t.current && !r.sealed {
			changes = r.changes[:r.applied]
		}
		delta := 0
		for _, c := range changes {
			delta += c.byteDelta()
		}
		for i := len(changes) - 1; i >= 0; i-- {
			changes[i].revert()
			pos = changes[i].posOnRevert()
		}
		t.size -= delta
	}

	var down []*revision
	for r := target; r != lca; r = r.parent {
		down = append(down, r)
	}
	for i := len(down) - 1; i >= 0; i-- {
		r := down[i]
		delta := 0
		for _, c := range r.changes {
			delta += c.byteDelta()
		}
		pos = r.applyForward()
		t.size += delta
	}

	t.current = target
	t.invalidateFrom(0)
	return pos
}

func lowestCommonAncestor(a, b *revision) *revision {
	depth := func(r *revision) int {
		n := 0
		for ; r.parent != nil; r = r.parent {
			n++
		}
		return n
	}
	da, db := depth(a), depth(b)
	for da > db {
		a = a.parent
		da--
	}
	for db > da {
		b = b.parent
		db--
	}
	for a != b {
		a = a.parent
		b = b.parent
	}
	return a
}

// now is overridable in tests; production code always uses time.Now.
func (t *Text) now() time.Time {
	if t.clock != nil {
		return t.clock()
	}
	return time.Now()
}
