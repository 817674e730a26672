// Package cache guarda en memoria las tablas de inventario ya normalizadas.
package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	appreport "github.com/jhoicas/inventory-search/internal/application/report"
	"github.com/jhoicas/inventory-search/internal/domain/entity"
)

// TableCache implementa report.TableCache con un LRU acotado.
// Las cargas concurrentes de la misma clave se colapsan en una sola lectura.
type TableCache struct {
	entries *lru.Cache[appreport.SourceKey, *entity.InventoryTable]
	group   singleflight.Group
	log     zerolog.Logger
}

// NewTableCache crea el caché con capacidad size (mínimo 1).
func NewTableCache(size int, log zerolog.Logger) (*TableCache, error) {
	if size < 1 {
		size = 1
	}
	entries, err := lru.New[appreport.SourceKey, *entity.InventoryTable](size)
	if err != nil {
		return nil, fmt.Errorf("cache: crear LRU: %w", err)
	}
	return &TableCache{entries: entries, log: log}, nil
}

// GetOrLoad devuelve la tabla de key; en un fallo invoca load una sola vez por clave
// aunque haya varios llamadores simultáneos. Los errores no se guardan.
func (c *TableCache) GetOrLoad(key appreport.SourceKey, load func() (*entity.InventoryTable, error)) (*entity.InventoryTable, error) {
	if t, ok := c.entries.Get(key); ok {
		return t, nil
	}
	v, err, shared := c.group.Do(key.String(), func() (interface{}, error) {
		if t, ok := c.entries.Get(key); ok {
			return t, nil
		}
		t, err := load()
		if err != nil {
			return nil, err
		}
		// Una versión nueva del archivo reemplaza a las anteriores de la misma ruta.
		if n := c.removePath(key.Path, key); n > 0 {
			c.log.Debug().Str("source", key.Path).Int("stale", n).Msg("versiones anteriores descartadas del caché")
		}
		c.entries.Add(key, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log.Trace().Str("source", key.Path).Msg("carga compartida entre solicitudes concurrentes")
	}
	return v.(*entity.InventoryTable), nil
}

// Invalidate elimina todas las versiones en caché de path y devuelve cuántas había.
func (c *TableCache) Invalidate(path string) int {
	return c.removePath(path, appreport.SourceKey{})
}

// Len número de tablas en caché.
func (c *TableCache) Len() int {
	return c.entries.Len()
}

func (c *TableCache) removePath(path string, keep appreport.SourceKey) int {
	removed := 0
	for _, k := range c.entries.Keys() {
		if k.Path == path && k != keep {
			if c.entries.Remove(k) {
				removed++
			}
		}
	}
	return removed
}
