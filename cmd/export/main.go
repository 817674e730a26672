// inventory-export carga la fuente del reporte, aplica los filtros y exporta una sola vez.
//
// Uso:
//
//	inventory-export --source Search_Report.xlsx --vendor-name acme --format xlsx --out acme.xlsx
//	inventory-export token --role operator
//
// La configuración (REPORT_SOURCE_PATH, REPORT_EXPORT_PATH, JWT_SECRET...) se lee igual que en la API;
// los flags tienen prioridad.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
