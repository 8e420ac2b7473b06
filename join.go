// Copyright 2024 CogitatorTech.
// SPDX-License-Identifier: Apache-2.0

package zodd

// joinHelper scans two key-sorted slices of Pair, keyed on the first
// field, emitting the cross product of every equal-key run through f
// in lexicographic (K, V1, V2) order. f receives borrowed values; it
// must not retain slice backing past the call (values here are
// ordinary Go values, so this is advisory rather than a real aliasing
// hazard, but the contract matches the underlying algorithm).
func joinHelper[K Ordered[K], V1 Ordered[V1], V2 Ordered[V2]](a []Pair[K, V1], b []Pair[K, V2], f func(K, V1, V2)) {
	for len(a) > 0 && len(b) > 0 {
		switch compare(a[0].Key, b[0].Key) {
		case -1:
			target := b[0].Key
			a = gallopBy(a, func(p Pair[K, V1]) bool { return p.Key.Less(target) })
		case 1:
			target := a[0].Key
			b = gallopBy(b, func(p Pair[K, V2]) bool { return p.Key.Less(target) })
		default:
			k := a[0].Key
			ae := runLength(a, k)
			be := runLength(b, k)
			for i := 0; i < ae; i++ {
				for j := 0; j < be; j++ {
					f(k, a[i].Val, b[j].Val)
				}
			}
			a = a[ae:]
			b = b[be:]
		}
	}
}

// runLength returns the length of the prefix of s whose Key equals k.
// s[0].Key must already equal k.
func runLength[K Ordered[K], V Ordered[V]](s []Pair[K, V], k K) int {
	n := 1
	for n < len(s) && equal(s[n].Key, k) {
		n++
	}
	return n
}

// JoinInto applies the semi-naive join identity
//
//	Δ(A ⋈ B) = Δ(A) ⋈ B_stable ∪ A_stable ⋈ Δ(B) ∪ Δ(A) ⋈ Δ(B)
//
// to Variables a and b, mapping every matching (k, v1, v2) through f
// and inserting the results into out as one Relation. When the
// Context has a worker pool and there is at least one stable-batch
// pairing to enumerate, each pairing (and the recent × recent term)
// runs as its own task; the per-task buffers are concatenated in fixed
// order before the final Relation is built, so results are
// deterministic regardless of scheduling.
func JoinInto[K Ordered[K], V1 Ordered[V1], V2 Ordered[V2], R Ordered[R]](
	ctx *Context,
	a *Variable[Pair[K, V1]],
	b *Variable[Pair[K, V2]],
	out *Variable[R],
	f func(K, V1, V2) R,
) error {
	var tasks []func() []R

	for _, bs := range b.stable {
		bs := bs
		tasks = append(tasks, func() []R {
			var buf []R
			joinHelper(a.recent.elements, bs.elements, func(k K, v1 V1, v2 V2) {
				buf = append(buf, f(k, v1, v2))
			})
			return buf
		})
	}
	for _, as := range a.stable {
		as := as
		tasks = append(tasks, func() []R {
			var buf []R
			joinHelper(as.elements, b.recent.elements, func(k K, v1 V1, v2 V2) {
				buf = append(buf, f(k, v1, v2))
			})
			return buf
		})
	}
	tasks = append(tasks, func() []R {
		var buf []R
		joinHelper(a.recent.elements, b.recent.elements, func(k K, v1 V1, v2 V2) {
			buf = append(buf, f(k, v1, v2))
		})
		return buf
	})

	results, err := runTasks(ctx, tasks)
	if err != nil {
		return err
	}

	var all []R
	for _, r := range results {
		all = append(all, r...)
	}
	out.InsertSequence(all)
	return nil
}

// runTasks executes each task, in parallel across ctx's worker pool
// when it is enabled and there is more than one task, and returns
// their results in input order.
func runTasks[R any](ctx *Context, tasks []func() []R) ([][]R, error) {
	results := make([][]R, len(tasks))
	pool := ctx.workPool()
	if pool.Enabled() && len(tasks) > 1 {
		err := pool.Run(len(tasks), func(i int) error {
			results[i] = tasks[i]()
			return nil
		})
		if err != nil {
			return nil, err
		}
		return results, nil
	}
	for i, t := range tasks {
		results[i] = t()
	}
	return results, nil
}
