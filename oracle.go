package asmrgo

import "sync"

// classInfo is the minimal shape the subtype oracle needs from a class:
// its own name, its superclass name (empty for java/lang/Object-equivalent
// roots), and its declared interfaces.
type classInfo struct {
	name        string
	superclass  string
	interfaces  []string
	isInterface bool
}

// subtypeOracle answers ancestry questions over the set of classes known to
// a Processor, backed by a cache of classInfo keyed by name so repeated
// getCommonSuperClass calls in a hot transformer don't re-walk providers.
type subtypeOracle struct {
	p *Processor

	mu    sync.Mutex
	cache map[string]*classInfo
}

func newSubtypeOracle(p *Processor) *subtypeOracle {
	return &subtypeOracle{p: p, cache: make(map[string]*classInfo)}
}

func (o *subtypeOracle) infoFor(className string) (*classInfo, error) {
	o.mu.Lock()
	if info, ok := o.cache[className]; ok {
		o.mu.Unlock()
		return info, nil
	}
	o.mu.Unlock()

	node, err := o.p.liveTree(className)
	if err != nil {
		return nil, err
	}
	interfaces := make([]string, node.Interfaces().Len())
	for i := range interfaces {
		interfaces[i] = node.Interfaces().Get(i).Value()
	}
	info := &classInfo{
		name:        className,
		superclass:  node.Superclass().Value(),
		interfaces:  interfaces,
		isInterface: node.IsInterface(),
	}

	o.mu.Lock()
	o.cache[className] = info
	o.mu.Unlock()
	return info, nil
}

// invalidate drops className's cached classInfo, forcing the next lookup to
// re-derive it from the live tree. Called once a class has been written,
// since its modifiers or superclass may have changed.
func (o *subtypeOracle) invalidate(className string) {
	o.mu.Lock()
	delete(o.cache, className)
	o.mu.Unlock()
}

// ancestorChain walks superclass links from className up to (and including)
// a class this processor has no knowledge of, at which point the chain
// stops: unknown ancestors outside the processed set are assumed unrelated
// rather than erroring, treating the oracle as best effort.
func (o *subtypeOracle) ancestorChain(className string) []string {
	var chain []string
	seen := map[string]bool{}
	for className != "" && !seen[className] {
		chain = append(chain, className)
		seen[className] = true
		info, err := o.infoFor(className)
		if err != nil {
			break
		}
		className = info.superclass
	}
	return chain
}

// isDerivedFrom reports whether sub is class ancestorName itself or has it
// somewhere among its superclasses or transitively implemented interfaces.
func (o *subtypeOracle) isDerivedFrom(sub, ancestorName string) bool {
	return o.isDerivedFromSeen(sub, ancestorName, map[string]bool{})
}

// isDerivedFromSeen carries a visited set through the recursive walk so a
// malformed cyclic graph (a class or interface that is its own ancestor)
// terminates instead of recursing forever: a revisited class answers false
// rather than being walked again.
func (o *subtypeOracle) isDerivedFromSeen(sub, ancestorName string, seen map[string]bool) bool {
	if sub == ancestorName {
		return true
	}
	if seen[sub] {
		return false
	}
	seen[sub] = true
	info, err := o.infoFor(sub)
	if err != nil {
		return false
	}
	for _, iface := range info.interfaces {
		if o.isDerivedFromSeen(iface, ancestorName, seen) {
			return true
		}
	}
	if info.superclass == "" {
		return false
	}
	return o.isDerivedFromSeen(info.superclass, ancestorName, seen)
}

// rootTypeName is returned by getCommonSuperClass whenever the two
// arguments differ and either is an interface or their ancestor chains
// share no name, mirroring the JVM verifier's own stack-map-frame merge rule of falling
// back to java/lang/Object.
const rootTypeName = "java/lang/Object"

// getCommonSuperClass finds the closest common ancestor of a and b by
// walking a's superclass chain into a set, then walking b's chain until it
// hits a member of that set. Interfaces are not considered when walking:
// if either a or b is itself an interface, the result is always
// rootTypeName, matching the JVM verifier's own getCommonSuperClass
// contract for merging stack map frame types.
func (o *subtypeOracle) getCommonSuperClass(a, b string) string {
	if a == b {
		return a
	}
	if o.isInterfaceType(a) || o.isInterfaceType(b) {
		return rootTypeName
	}
	chainA := o.ancestorChain(a)
	inA := make(map[string]bool, len(chainA))
	for _, c := range chainA {
		inA[c] = true
	}
	for _, c := range o.ancestorChain(b) {
		if inA[c] {
			return c
		}
	}
	return rootTypeName
}

// isInterfaceType reports whether className is known to this oracle and
// declared as an interface. An unknown class is not treated as an
// interface here; in getCommonSuperClass's ancestry walk it is the last
// entry of its chain.
func (o *subtypeOracle) isInterfaceType(className string) bool {
	info, err := o.infoFor(className)
	if err != nil {
		return false
	}
	return info.isInterface
}
