package ui

// patchPool recycles the patch buffers the Renderer diffs into. It is only
// used from the reconciliation goroutine and is not safe for concurrent use.
type patchPool struct {
	objects         [][]Patch
	capacity        int
	maxCapacity     int
	baseCapacity    int
	resizeThreshold int
	constructor     func() []Patch
}

func newPatchPool(baseCapacity, maxCapacity, resizeThreshold int, constructor func() []Patch) *patchPool {
	objects := make([][]Patch, 0, baseCapacity)
	return &patchPool{
		objects:         objects,
		capacity:        baseCapacity,
		maxCapacity:     maxCapacity,
		baseCapacity:    baseCapacity,
		resizeThreshold: resizeThreshold,
		constructor:     constructor,
	}
}

func (p *patchPool) Get() []Patch {
	if len(p.objects) == 0 {
		return p.constructor()
	}

	lastIndex := len(p.objects) - 1
	obj := p.objects[lastIndex]
	p.objects[lastIndex] = nil
	p.objects = p.objects[:lastIndex]
	return obj
}

// Put returns a buffer to the pool. Its patches are cleared so that the pool
// does not retain Nodes of dead trees.
func (p *patchPool) Put(patches []Patch) {
	for i := range patches {
		patches[i] = Patch{}
	}
	patches = patches[:0]
	if len(p.objects) >= p.capacity {
		if p.capacity+p.resizeThreshold > p.maxCapacity {
			return
		}
		p.adjustCapacity(p.capacity + p.resizeThreshold)
	}
	p.objects = append(p.objects, patches)
}

func (p *patchPool) adjustCapacity(newCapacity int) {
	if newCapacity < p.baseCapacity {
		newCapacity = p.baseCapacity
	} else if newCapacity > p.maxCapacity {
		newCapacity = p.maxCapacity
	}
	p.capacity = newCapacity
}

// Len returns the number of idle buffers.
func (p *patchPool) Len() int { return len(p.objects) }

func newPatchBuffer() []Patch {
	return make([]Patch, 0, 32)
}
