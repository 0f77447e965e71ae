package schema

import (
	"strings"

	"github.com/kolah/routespec/internal/naming"
	"github.com/kolah/routespec/model"
)

type frame struct {
	t    *model.TypeDescriptor
	path []string
}

// markCycles finds cycles made only of anonymous types below t and picks
// one object on each to become a definition. Its name is built from the
// path the walk took to first reach it.
func (n *Normalizer) markCycles(t *model.TypeDescriptor, context string) error {
	w := &cycleWalker{
		n:       n,
		onStack: make(map[*model.TypeDescriptor]int),
		done:    make(map[*model.TypeDescriptor]bool),
	}
	return w.walk(t, []string{context})
}

type cycleWalker struct {
	n       *Normalizer
	stack   []frame
	onStack map[*model.TypeDescriptor]int
	done    map[*model.TypeDescriptor]bool
}

func (w *cycleWalker) walk(t *model.TypeDescriptor, path []string) error {
	if t == nil || w.done[t] {
		return nil
	}
	if at, ok := w.onStack[t]; ok {
		return w.closeCycle(w.stack[at:])
	}
	if t.Kind == model.KindObject && t.Name != "" {
		path = []string{t.Name}
	}

	w.onStack[t] = len(w.stack)
	w.stack = append(w.stack, frame{t: t, path: path})
	defer func() {
		w.stack = w.stack[:len(w.stack)-1]
		delete(w.onStack, t)
		w.done[t] = true
	}()

	switch t.Kind {
	case model.KindArray:
		return w.walk(t.Elem, extend(path, "Item"))
	case model.KindMap:
		return w.walk(t.Elem, extend(path, "Value"))
	case model.KindObject:
		for _, f := range t.Fields {
			if err := w.walk(f.Type, extend(path, f.Name)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *cycleWalker) closeCycle(cycle []frame) error {
	var target *frame
	for i := range cycle {
		t := cycle[i].t
		if t.Kind != model.KindObject {
			continue
		}
		if t.Name != "" {
			return nil
		}
		if _, ok := w.n.synthetic[t]; ok {
			return nil
		}
		if target == nil {
			target = &cycle[i]
		}
	}

	if target == nil {
		return &SchemaError{Path: joinPath(cycle[0].path), Reason: "recursive type without an object to name"}
	}
	if w.n.strict {
		return &SchemaError{Path: joinPath(target.path), Reason: "anonymous recursive type"}
	}
	w.n.synthetic[target.t] = syntheticName(target.path)
	return nil
}

func syntheticName(path []string) string {
	name := naming.PascalCase(strings.Join(path, " "))
	if name == "" {
		return "Anonymous"
	}
	return name
}
