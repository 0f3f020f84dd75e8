package raster

import "sync"

// Producer computes a Raster on demand. Pipeline operations compose a new
// Producer that applies their transformation over the source's (already
// memoized) Raster.
type Producer func() (*Raster, error)

// RasterData wraps a lazily-computed Raster behind a memoized cell, per the
// design note "Memoized lazy rasters": a sync.Once-guarded cell carrying
// either a producer or its cached result. Cloning a RasterData shares the
// cell, giving the reference semantics spec §9 calls for ("cloned handles
// pointing at the same pipeline").
type RasterData struct {
	cell *cell
}

type cell struct {
	once    sync.Once
	produce Producer
	raster  *Raster
	err     error
}

// New wraps a ready-made Raster (no lazy computation needed).
func New(r *Raster) RasterData {
	c := &cell{raster: r}
	c.once.Do(func() {})
	return RasterData{cell: c}
}

// Lazy wraps a Producer; it runs at most once, on first Get.
func Lazy(p Producer) RasterData {
	return RasterData{cell: &cell{produce: p}}
}

// Get materializes (once) and returns the Raster.
func (d RasterData) Get() (*Raster, error) {
	d.cell.once.Do(func() {
		if d.cell.produce != nil {
			d.cell.raster, d.cell.err = d.cell.produce()
		}
	})
	return d.cell.raster, d.cell.err
}

// Derive builds a new RasterData whose Producer runs f over d's (memoized)
// Raster the first time it's needed.
func (d RasterData) Derive(f func(*Raster) (*Raster, error)) RasterData {
	return Lazy(func() (*Raster, error) {
		src, err := d.Get()
		if err != nil {
			return nil, err
		}
		return f(src)
	})
}
