package graph

// StronglyConnected partitions the graph into strongly connected components
// using Kosaraju's algorithm. The first pass records DFS finish order on the
// graph, the second walks the reversed graph in decreasing finish order. Both
// passes use explicit stacks so deep graphs don't grow the goroutine stack.
//
// Every node appears in exactly one component, including singletons.
func (g *Digraph) StronglyConnected() [][]string {
	n := len(g.labels)
	if n == 0 {
		return nil
	}

	order := g.finishOrder()

	rev := make([][]int, n)
	for v, targets := range g.out {
		for _, w := range targets {
			rev[w] = append(rev[w], v)
		}
	}

	assigned := make([]bool, n)
	var components [][]string
	var stack []int
	for i := len(order) - 1; i >= 0; i-- {
		root := order[i]
		if assigned[root] {
			continue
		}
		assigned[root] = true
		stack = append(stack[:0], root)
		var component []string
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, g.labels[v])
			for _, w := range rev[v] {
				if !assigned[w] {
					assigned[w] = true
					stack = append(stack, w)
				}
			}
		}
		components = append(components, component)
	}
	return components
}

// finishOrder returns node indices in the order their DFS finished
func (g *Digraph) finishOrder() []int {
	type frame struct {
		v    int
		next int
	}

	n := len(g.labels)
	visited := make([]bool, n)
	order := make([]int, 0, n)
	var stack []frame

	for s := 0; s < n; s++ {
		if visited[s] {
			continue
		}
		visited[s] = true
		stack = append(stack, frame{v: s})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(g.out[top.v]) {
				w := g.out[top.v][top.next]
				top.next++
				if !visited[w] {
					visited[w] = true
					stack = append(stack, frame{v: w})
				}
				continue
			}
			order = append(order, top.v)
			stack = stack[:len(stack)-1]
		}
	}
	return order
}
