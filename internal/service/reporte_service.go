package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"cantina/internal/dto"
	"cantina/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReporteService aggregates sales and ledger activity for the back office.
type ReporteService interface {
	Diario(ctx context.Context, fecha string) (*dto.ReporteDiarioResponse, error)

	// DiarioXLSX renders the daily report as an Excel workbook.
	DiarioXLSX(ctx context.Context, fecha string) ([]byte, string, error)
}

type reporteService struct {
	ventaRepo       repository.VentaRepository
	transaccionRepo repository.TransaccionRepository
}

func NewReporteService(ventaRepo repository.VentaRepository, transaccionRepo repository.TransaccionRepository) ReporteService {
	return &reporteService{ventaRepo: ventaRepo, transaccionRepo: transaccionRepo}
}

const topProductosLimit = 10

func (s *reporteService) Diario(ctx context.Context, fecha string) (*dto.ReporteDiarioResponse, error) {
	if fecha == "" {
		fecha = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", fecha); err != nil {
		return nil, fmt.Errorf("fecha inválida, se espera YYYY-MM-DD: %w", err)
	}

	ventas, _, err := s.ventaRepo.List(ctx, dto.ListVentasQuery{
		Desde:  fecha,
		Hasta:  fecha,
		Pagina: 1,
		Limite: 100000,
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.ReporteDiarioResponse{
		Fecha:         fecha,
		PorMetodoPago: map[string]decimal.Decimal{},
		TopProductos:  []dto.ProductoVendido{},
	}

	type acumulado struct {
		nombre   string
		cantidad decimal.Decimal
		importe  decimal.Decimal
	}
	porProducto := map[string]*acumulado{}

	for _, v := range ventas {
		switch v.Estado {
		case "anulada":
			resp.TotalAnulado = resp.TotalAnulado.Add(v.Total)
			continue
		case "completada":
		default:
			continue
		}

		resp.CantidadVentas++
		resp.TotalVendido = resp.TotalVendido.Add(v.Total)

		for _, p := range v.Pagos {
			nombre := "desconocido"
			if p.MetodoPago != nil {
				nombre = p.MetodoPago.Nombre
			}
			resp.PorMetodoPago[nombre] = resp.PorMetodoPago[nombre].Add(p.Monto)
		}

		for _, d := range v.Detalles {
			key := d.ProductoID.String()
			acc, ok := porProducto[key]
			if !ok {
				acc = &acumulado{}
				if d.Producto != nil {
					acc.nombre = d.Producto.Nombre
				}
				porProducto[key] = acc
			}
			acc.cantidad = acc.cantidad.Add(d.Cantidad)
			acc.importe = acc.importe.Add(d.Subtotal)
		}
	}

	for id, acc := range porProducto {
		resp.TopProductos = append(resp.TopProductos, dto.ProductoVendido{
			ProductoID: id,
			Nombre:     acc.nombre,
			Cantidad:   acc.cantidad,
			Importe:    acc.importe,
		})
	}
	sort.Slice(resp.TopProductos, func(i, j int) bool {
		return resp.TopProductos[i].Importe.GreaterThan(resp.TopProductos[j].Importe)
	})
	if len(resp.TopProductos) > topProductosLimit {
		resp.TopProductos = resp.TopProductos[:topProductosLimit]
	}

	recargas, err := s.transaccionRepo.SumByTipoAndDate(ctx, "recarga", fecha)
	if err != nil {
		return nil, err
	}
	resp.Recargas = recargas

	consumos, err := s.transaccionRepo.SumByTipoAndDate(ctx, "consumo", fecha)
	if err != nil {
		return nil, err
	}
	// Consumos are stored negative; report the magnitude.
	resp.Consumos = consumos.Neg()

	return resp, nil
}

func (s *reporteService) DiarioXLSX(ctx context.Context, fecha string) ([]byte, string, error) {
	reporte, err := s.Diario(ctx, fecha)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Reporte Diario"
	f.SetSheetName("Sheet1", sheet)

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	f.SetCellValue(sheet, "A1", "Reporte diario de ventas")
	f.SetCellStyle(sheet, "A1", "A1", bold)
	f.SetCellValue(sheet, "A2", "Fecha")
	f.SetCellValue(sheet, "B2", reporte.Fecha)

	f.SetCellValue(sheet, "A4", "Ventas completadas")
	f.SetCellValue(sheet, "B4", reporte.CantidadVentas)
	f.SetCellValue(sheet, "A5", "Total vendido")
	f.SetCellValue(sheet, "B5", reporte.TotalVendido.InexactFloat64())
	f.SetCellValue(sheet, "A6", "Total anulado")
	f.SetCellValue(sheet, "B6", reporte.TotalAnulado.InexactFloat64())
	f.SetCellValue(sheet, "A7", "Recargas acreditadas")
	f.SetCellValue(sheet, "B7", reporte.Recargas.InexactFloat64())
	f.SetCellValue(sheet, "A8", "Consumos con tarjeta")
	f.SetCellValue(sheet, "B8", reporte.Consumos.InexactFloat64())

	row := 10
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Por método de pago")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), bold)
	row++
	metodos := make([]string, 0, len(reporte.PorMetodoPago))
	for m := range reporte.PorMetodoPago {
		metodos = append(metodos, m)
	}
	sort.Strings(metodos)
	for _, m := range metodos {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), reporte.PorMetodoPago[m].InexactFloat64())
		row++
	}

	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Productos más vendidos")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), bold)
	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Producto")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Cantidad")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Importe")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), bold)
	row++
	for _, p := range reporte.TopProductos {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.Nombre)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), p.Cantidad.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), p.Importe.InexactFloat64())
		row++
	}

	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "C", 14)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("reporte_diario_%s.xlsx", reporte.Fecha)
	return buf.Bytes(), filename, nil
}
