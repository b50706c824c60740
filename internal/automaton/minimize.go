package automaton

import "fmt"

// reachable drops states that cannot be reached from the start.
func (d *DFA) reachable() *DFA {
	seen := newStateSet(d.start)
	order := []string{d.start}
	for i := 0; i < len(order); i++ {
		for _, sym := range d.alphabet {
			to, ok := d.trans[order[i]][sym]
			if ok && !seen.has(to) {
				seen[to] = struct{}{}
				order = append(order, to)
			}
		}
	}
	if len(order) == len(d.states) {
		return d
	}
	out := &DFA{
		states:   order,
		alphabet: d.alphabet,
		start:    d.start,
		accept:   make(stateSet),
		trans:    make(map[string]map[string]string, len(order)),
	}
	for _, st := range order {
		if d.accept.has(st) {
			out.accept[st] = struct{}{}
		}
		if row, ok := d.trans[st]; ok {
			out.trans[st] = row
		}
	}
	return out
}

// Minimize returns the minimal complete DFA for the language of d using
// Hopcroft's partition refinement. States of the result are named q0, q1,
// ... in breadth-first order from the start.
func Minimize(d *DFA) *DFA {
	d = d.reachable().complete()

	acc, non := make(stateSet), make(stateSet)
	for _, st := range d.states {
		if d.accept.has(st) {
			acc[st] = struct{}{}
		} else {
			non[st] = struct{}{}
		}
	}
	partitions := make([]stateSet, 0, 2)
	if len(acc) != 0 {
		partitions = append(partitions, acc)
	}
	if len(non) != 0 {
		partitions = append(partitions, non)
	}

	// block indices waiting to be used as splitters
	work := make(map[int]struct{}, len(partitions))
	for i := range partitions {
		work[i] = struct{}{}
	}
	for len(work) > 0 {
		var idx int
		for idx = range work {
			break
		}
		delete(work, idx)
		splitter := partitions[idx]

		for _, sym := range d.alphabet {
			pre := make(stateSet)
			for _, st := range d.states {
				if splitter.has(d.trans[st][sym]) {
					pre[st] = struct{}{}
				}
			}
			for pIdx := 0; pIdx < len(partitions); pIdx++ {
				inter, diff := make(stateSet), make(stateSet)
				for st := range partitions[pIdx] {
					if pre.has(st) {
						inter[st] = struct{}{}
					} else {
						diff[st] = struct{}{}
					}
				}
				if len(inter) == 0 || len(diff) == 0 {
					continue
				}
				partitions[pIdx] = inter
				partitions = append(partitions, diff)
				newIdx := len(partitions) - 1
				if _, queued := work[pIdx]; queued || len(diff) <= len(inter) {
					work[newIdx] = struct{}{}
				}
				if _, queued := work[pIdx]; !queued && len(inter) < len(diff) {
					work[pIdx] = struct{}{}
				}
			}
		}
	}

	blockOf := make(map[string]int, len(d.states))
	for i, p := range partitions {
		for st := range p {
			blockOf[st] = i
		}
	}

	// name blocks in breadth-first order so the result is stable
	names := make(map[int]string, len(partitions))
	order := []string{d.start}
	names[blockOf[d.start]] = "q0"
	for i := 0; i < len(order); i++ {
		for _, sym := range d.alphabet {
			to := d.trans[order[i]][sym]
			if _, ok := names[blockOf[to]]; !ok {
				names[blockOf[to]] = fmt.Sprintf("q%d", len(names))
				order = append(order, to)
			}
		}
	}

	out := &DFA{
		alphabet: d.alphabet,
		start:    "q0",
		accept:   make(stateSet),
		trans:    make(map[string]map[string]string, len(order)),
	}
	for _, rep := range order {
		name := names[blockOf[rep]]
		out.states = append(out.states, name)
		if d.accept.has(rep) {
			out.accept[name] = struct{}{}
		}
		row := make(map[string]string, len(d.alphabet))
		for _, sym := range d.alphabet {
			row[sym] = names[blockOf[d.trans[rep][sym]]]
		}
		out.trans[name] = row
	}
	return out
}
