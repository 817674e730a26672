package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-search/internal/domain"
	"github.com/jhoicas/inventory-search/internal/domain/entity"
)

// Loader carga la tabla de inventario pasando por el caché inyectado.
// Con cache nil lee la fuente en cada llamada.
type Loader struct {
	reader SourceReader
	cache  TableCache
	log    zerolog.Logger
}

// NewLoader construye el cargador.
func NewLoader(reader SourceReader, cache TableCache, log zerolog.Logger) *Loader {
	return &Loader{reader: reader, cache: cache, log: log}
}

// Load devuelve la tabla de sourcePath. Falla con domain.ErrSourceUnavailable si la ruta
// no existe o no se puede leer, y con *domain.SchemaError si faltan columnas requeridas.
func (l *Loader) Load(ctx context.Context, sourcePath string) (*entity.InventoryTable, error) {
	key, err := identify(sourcePath)
	if err != nil {
		return nil, err
	}
	if l.cache == nil {
		return l.reader.Read(ctx, key.Path)
	}
	// La carga es compartida: no debe cancelarse si se cancela quien la inició.
	loadCtx := context.WithoutCancel(ctx)
	return l.cache.GetOrLoad(key, func() (*entity.InventoryTable, error) {
		l.log.Debug().Str("source", key.Path).Time("mod_time", key.ModTime).Msg("leyendo fuente de inventario")
		return l.reader.Read(loadCtx, key.Path)
	})
}

// Invalidate descarta del caché todas las versiones de sourcePath.
func (l *Loader) Invalidate(sourcePath string) int {
	if l.cache == nil {
		return 0
	}
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		abs = sourcePath
	}
	return l.cache.Invalidate(abs)
}

func identify(sourcePath string) (SourceKey, error) {
	if sourcePath == "" {
		return SourceKey{}, fmt.Errorf("%w: ruta vacía", domain.ErrSourceUnavailable)
	}
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return SourceKey{}, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return SourceKey{}, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	if info.IsDir() {
		return SourceKey{}, fmt.Errorf("%w: %s es un directorio", domain.ErrSourceUnavailable, abs)
	}
	return SourceKey{Path: abs, ModTime: info.ModTime(), Size: info.Size()}, nil
}
