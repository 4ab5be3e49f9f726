package service

import (
	"context"
	"errors"
	"fmt"

	"cantina/internal/dto"
	"cantina/internal/model"
	"cantina/internal/repository"
	"cantina/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrSinTurnoActivo    = errors.New("el cajero no tiene un turno abierto")
	ErrStockInsuficiente = errors.New("stock insuficiente")
	ErrPagoInsuficiente  = errors.New("el monto total de pagos es insuficiente")
	ErrVentaNoPendiente  = errors.New("la venta no está pendiente")
	ErrVentaAnulada      = errors.New("la venta ya está anulada")
)

// VentaService rings sales under cashier shifts. ProcesarVenta is the fast
// path (create, pay, and complete in one call); the draft flow supports
// incremental item entry from the POS grid.
type VentaService interface {
	ProcesarVenta(ctx context.Context, cajeroID uuid.UUID, req dto.ProcesarVentaRequest) (*dto.ProcesarVentaResponse, error)
	ValidarPreview(ctx context.Context, req dto.ValidarVentaRequest) (*dto.ValidarVentaResponse, error)

	CrearBorrador(ctx context.Context, cajeroID uuid.UUID, req dto.CrearBorradorRequest) (*dto.VentaResponse, error)
	AgregarItem(ctx context.Context, ventaID uuid.UUID, req dto.AgregarItemRequest) (*dto.VentaResponse, error)
	EliminarItem(ctx context.Context, ventaID, detalleID uuid.UUID) (*dto.VentaResponse, error)
	ProcesarPendiente(ctx context.Context, ventaID uuid.UUID, req dto.PagarVentaRequest) (*dto.ProcesarVentaResponse, error)

	AnularVenta(ctx context.Context, id, adminID uuid.UUID, motivo string) error
	Detalle(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.ListVentasQuery) ([]dto.VentaResponse, int64, error)
}

type ventaService struct {
	repo           repository.VentaRepository
	productoRepo   repository.ProductoRepository
	alumnoRepo     repository.AlumnoRepository
	turnoRepo      repository.TurnoRepository
	metodoPagoRepo repository.MetodoPagoRepository
	saldo          SaldoService
	dispatcher     *worker.Dispatcher
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	alumnoRepo repository.AlumnoRepository,
	turnoRepo repository.TurnoRepository,
	metodoPagoRepo repository.MetodoPagoRepository,
	saldo SaldoService,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		repo:           repo,
		productoRepo:   productoRepo,
		alumnoRepo:     alumnoRepo,
		turnoRepo:      turnoRepo,
		metodoPagoRepo: metodoPagoRepo,
		saldo:          saldo,
		dispatcher:     dispatcher,
	}
}

type resolvedItem struct {
	productoID uuid.UUID
	nombre     string
	precio     decimal.Decimal
	cantidad   decimal.Decimal
	descuento  decimal.Decimal
	subtotal   decimal.Decimal
}

type resolvedPago struct {
	metodo     *model.MetodoPago
	monto      decimal.Decimal
	montoFinal decimal.Decimal
	referencia string
}

// resolverItems validates products and computes line subtotals outside the tx.
func (s *ventaService) resolverItems(ctx context.Context, items []dto.ItemVentaRequest) ([]resolvedItem, decimal.Decimal, decimal.Decimal, error) {
	var resolved []resolvedItem
	subtotal := decimal.Zero
	descuentoItems := decimal.Zero

	for _, item := range items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("producto_id inválido: %w", err)
		}
		if !item.Cantidad.IsPositive() {
			return nil, decimal.Zero, decimal.Zero, errors.New("la cantidad debe ser mayor a cero")
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("producto %s no encontrado", item.ProductoID)
		}
		if p.Estado != "activo" {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("producto %s está inactivo y no puede venderse", p.Nombre)
		}
		if p.Cantidad.LessThan(item.Cantidad) {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s (disponible %s)", ErrStockInsuficiente, p.Nombre, p.Cantidad)
		}

		lineSubtotal := p.PrecioVenta.Mul(item.Cantidad).Sub(item.DescuentoItem)
		if lineSubtotal.IsNegative() {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("el descuento del item %s excede su importe", p.Nombre)
		}
		subtotal = subtotal.Add(lineSubtotal)
		descuentoItems = descuentoItems.Add(item.DescuentoItem)

		resolved = append(resolved, resolvedItem{
			productoID: pid,
			nombre:     p.Nombre,
			precio:     p.PrecioVenta,
			cantidad:   item.Cantidad,
			descuento:  item.DescuentoItem,
			subtotal:   lineSubtotal,
		})
	}
	return resolved, subtotal, descuentoItems, nil
}

// resolverPagos validates tenders. Coverage is checked against the raw monto;
// the tasa surcharge only affects monto_final (what the payer is charged).
func (s *ventaService) resolverPagos(ctx context.Context, pagos []dto.PagoVentaRequest, total decimal.Decimal, alumno *model.Alumno) ([]resolvedPago, decimal.Decimal, error) {
	var resolved []resolvedPago
	totalPagos := decimal.Zero
	cien := decimal.NewFromInt(100)

	for _, pago := range pagos {
		mid, err := uuid.Parse(pago.MetodoPagoID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("metodo_pago_id inválido: %w", err)
		}
		if !pago.Monto.IsPositive() {
			return nil, decimal.Zero, errors.New("el monto del pago debe ser mayor a cero")
		}
		metodo, err := s.metodoPagoRepo.FindByID(ctx, mid)
		if err != nil {
			return nil, decimal.Zero, errors.New("método de pago no encontrado")
		}
		if !metodo.Activo {
			return nil, decimal.Zero, fmt.Errorf("el método de pago %s está inactivo", metodo.Nombre)
		}
		if metodo.RequiereReferencia && pago.Referencia == "" {
			return nil, decimal.Zero, fmt.Errorf("el método %s requiere número de referencia", metodo.Nombre)
		}
		if metodo.Tipo == "saldo" && alumno == nil {
			return nil, decimal.Zero, errors.New("el pago con saldo requiere tarjeta de alumno")
		}

		montoFinal := pago.Monto.Add(pago.Monto.Mul(metodo.TasaPct).Div(cien)).Round(2)
		totalPagos = totalPagos.Add(pago.Monto)
		resolved = append(resolved, resolvedPago{
			metodo:     metodo,
			monto:      pago.Monto,
			montoFinal: montoFinal,
			referencia: pago.Referencia,
		})
	}

	if totalPagos.LessThan(total) {
		return nil, decimal.Zero, ErrPagoInsuficiente
	}

	// Change only comes out of cash: card/transfer/saldo tenders must not
	// exceed the total on their own.
	cambio := totalPagos.Sub(total)
	if cambio.IsPositive() {
		efectivo := decimal.Zero
		for _, p := range resolved {
			if p.metodo.Tipo == "efectivo" {
				efectivo = efectivo.Add(p.monto)
			}
		}
		if cambio.GreaterThan(efectivo) {
			return nil, decimal.Zero, errors.New("el vuelto no puede exceder el efectivo entregado")
		}
	}
	return resolved, cambio, nil
}

func (s *ventaService) resolverAlumno(ctx context.Context, numeroTarjeta string) (*model.Alumno, error) {
	if numeroTarjeta == "" {
		return nil, nil
	}
	alumno, err := s.alumnoRepo.FindByTarjeta(ctx, numeroTarjeta)
	if err != nil {
		return nil, errors.New("tarjeta no registrada")
	}
	if alumno.Estado != "activo" {
		return nil, ErrAlumnoInactivo
	}
	return alumno, nil
}

// ── ProcesarVenta ─────────────────────────────────────────────────────────────
// Full flow in one ACID transaction:
//   1. Validate open turno for the cajero
//   2. Resolve alumno (if card), items, and pagos outside the tx
//   3. BEGIN TX: nextval numero, create venta + detalles + pagos,
//      decrement stock with row locks + movimientos, debit saldo if tendered
//   4. COMMIT, then dispatch the facturación job

func (s *ventaService) ProcesarVenta(ctx context.Context, cajeroID uuid.UUID, req dto.ProcesarVentaRequest) (*dto.ProcesarVentaResponse, error) {
	turno, err := s.turnoRepo.FindActivoByCajero(ctx, cajeroID)
	if err != nil {
		return nil, ErrSinTurnoActivo
	}

	alumno, err := s.resolverAlumno(ctx, req.NumeroTarjeta)
	if err != nil {
		return nil, err
	}

	resolved, subtotal, _, err := s.resolverItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	if req.Descuento.IsNegative() || req.Descuento.GreaterThan(subtotal) {
		return nil, errors.New("descuento inválido")
	}
	total := subtotal.Sub(req.Descuento)

	pagos, cambio, err := s.resolverPagos(ctx, req.Pagos, total, alumno)
	if err != nil {
		return nil, err
	}

	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumeroVenta(ctx, tx)
		if err != nil {
			return err
		}

		venta = model.Venta{
			NumeroVenta: numero,
			CajeroID:    cajeroID,
			TurnoID:     turno.ID,
			Estado:      "completada",
			Subtotal:    subtotal,
			Descuento:   req.Descuento,
			Total:       total,
		}
		if alumno != nil {
			venta.AlumnoID = &alumno.ID
		}
		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		for _, r := range resolved {
			if err := s.registrarDetalleTx(ctx, tx, &venta, r); err != nil {
				return err
			}
		}

		for _, p := range pagos {
			ref := p.referencia
			pago := &model.PagoVenta{
				VentaID:      venta.ID,
				MetodoPagoID: p.metodo.ID,
				Monto:        p.monto,
				TasaPct:      p.metodo.TasaPct,
				MontoFinal:   p.montoFinal,
			}
			if ref != "" {
				pago.Referencia = &ref
			}
			if err := s.repo.CreatePagoTx(tx, pago); err != nil {
				return err
			}

			if p.metodo.Tipo == "saldo" {
				desc := fmt.Sprintf("Consumo venta #%d", numero)
				if _, err := s.saldo.ConsumirSaldoTx(ctx, tx, alumno.ID, p.monto, desc, &venta.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if alumno != nil {
		s.saldo.InvalidarTarjeta(ctx, alumno.NumeroTarjeta)
	}
	s.despacharFacturacion(ctx, venta.ID)

	return &dto.ProcesarVentaResponse{
		Success:     true,
		VentaID:     venta.ID.String(),
		NumeroVenta: venta.NumeroVenta,
		Total:       total,
		Cambio:      cambio,
	}, nil
}

// registrarDetalleTx creates one line, decrements stock under a row lock, and
// records the movimiento with before/after snapshots.
func (s *ventaService) registrarDetalleTx(ctx context.Context, tx *gorm.DB, venta *model.Venta, r resolvedItem) error {
	detalle := &model.DetalleVenta{
		VentaID:        venta.ID,
		ProductoID:     r.productoID,
		Cantidad:       r.cantidad,
		PrecioUnitario: r.precio,
		DescuentoItem:  r.descuento,
		Subtotal:       r.subtotal,
	}
	if err := s.repo.CreateDetalleTx(tx, detalle); err != nil {
		return err
	}

	p, err := s.productoRepo.FindByIDForUpdate(ctx, tx, r.productoID)
	if err != nil {
		return err
	}
	if p.Cantidad.LessThan(r.cantidad) {
		return fmt.Errorf("%w: %s (disponible %s)", ErrStockInsuficiente, p.Nombre, p.Cantidad)
	}

	// Snapshot before the decrement; the repo may mutate the loaded row.
	stockAnterior := p.Cantidad
	if err := s.productoRepo.UpdateStockTx(tx, r.productoID, r.cantidad.Neg()); err != nil {
		return err
	}

	ventaRef := venta.ID
	mov := &model.MovimientoStock{
		ProductoID:    r.productoID,
		Tipo:          "venta",
		Cantidad:      r.cantidad.Neg(),
		StockAnterior: stockAnterior,
		StockNuevo:    stockAnterior.Sub(r.cantidad),
		Motivo:        fmt.Sprintf("Venta #%d", venta.NumeroVenta),
		ReferenciaID:  &ventaRef,
	}
	return s.productoRepo.CreateMovimientoTx(tx, mov)
}

func (s *ventaService) despacharFacturacion(ctx context.Context, ventaID uuid.UUID) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.EnqueueFacturacion(ctx, map[string]interface{}{
		"venta_id": ventaID.String(),
	})
}

// ── ValidarPreview ────────────────────────────────────────────────────────────

// ValidarPreview is a read-only dry run: it reports totals and every problem
// found without touching stock or balances.
func (s *ventaService) ValidarPreview(ctx context.Context, req dto.ValidarVentaRequest) (*dto.ValidarVentaResponse, error) {
	resp := &dto.ValidarVentaResponse{Errores: []string{}}

	var alumno *model.Alumno
	if req.NumeroTarjeta != "" {
		var err error
		alumno, err = s.resolverAlumno(ctx, req.NumeroTarjeta)
		if err != nil {
			resp.Errores = append(resp.Errores, err.Error())
		}
	}

	subtotal := decimal.Zero
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			resp.Errores = append(resp.Errores, fmt.Sprintf("producto_id inválido: %s", item.ProductoID))
			continue
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			resp.Errores = append(resp.Errores, fmt.Sprintf("producto %s no encontrado", item.ProductoID))
			continue
		}
		if p.Estado != "activo" {
			resp.Errores = append(resp.Errores, fmt.Sprintf("producto %s inactivo", p.Nombre))
			continue
		}
		if p.Cantidad.LessThan(item.Cantidad) {
			resp.Errores = append(resp.Errores, fmt.Sprintf("stock insuficiente de %s (disponible %s)", p.Nombre, p.Cantidad))
		}
		subtotal = subtotal.Add(p.PrecioVenta.Mul(item.Cantidad).Sub(item.DescuentoItem))
	}

	total := subtotal.Sub(req.Descuento)
	resp.Subtotal = subtotal
	resp.Descuento = req.Descuento
	resp.Total = total

	if alumno != nil {
		saldoInfo, err := s.saldo.ConsultarPorTarjeta(ctx, req.NumeroTarjeta)
		if err == nil {
			resp.SaldoTarjeta = &saldoInfo.SaldoTarjeta
			resp.DisponibleHoy = &saldoInfo.DisponibleHoy
			if saldoInfo.DisponibleHoy.LessThan(total) {
				resp.Errores = append(resp.Errores, "el saldo disponible no cubre el total")
			}
		}
	}

	resp.Valida = len(resp.Errores) == 0
	return resp, nil
}

// ── Draft flow ────────────────────────────────────────────────────────────────

func (s *ventaService) CrearBorrador(ctx context.Context, cajeroID uuid.UUID, req dto.CrearBorradorRequest) (*dto.VentaResponse, error) {
	turno, err := s.turnoRepo.FindActivoByCajero(ctx, cajeroID)
	if err != nil {
		return nil, ErrSinTurnoActivo
	}

	alumno, err := s.resolverAlumno(ctx, req.NumeroTarjeta)
	if err != nil {
		return nil, err
	}

	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumeroVenta(ctx, tx)
		if err != nil {
			return err
		}
		venta = model.Venta{
			NumeroVenta: numero,
			CajeroID:    cajeroID,
			TurnoID:     turno.ID,
			Estado:      "pendiente",
		}
		if alumno != nil {
			venta.AlumnoID = &alumno.ID
		}
		return s.repo.Create(ctx, tx, &venta)
	})
	if txErr != nil {
		return nil, txErr
	}
	return ventaToResponse(&venta), nil
}

// AgregarItem appends a line to a pending sale. Stock is reserved immediately.
func (s *ventaService) AgregarItem(ctx context.Context, ventaID uuid.UUID, req dto.AgregarItemRequest) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, ventaID)
	if err != nil {
		return nil, errors.New("venta no encontrada")
	}
	if venta.Estado != "pendiente" {
		return nil, ErrVentaNoPendiente
	}

	resolved, _, _, err := s.resolverItems(ctx, []dto.ItemVentaRequest{{
		ProductoID:    req.ProductoID,
		Cantidad:      req.Cantidad,
		DescuentoItem: req.DescuentoItem,
	}})
	if err != nil {
		return nil, err
	}
	r := resolved[0]

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.registrarDetalleTx(ctx, tx, venta, r); err != nil {
			return err
		}
		venta.Subtotal = venta.Subtotal.Add(r.subtotal)
		venta.Total = venta.Subtotal.Sub(venta.Descuento)
		return s.repo.UpdateTx(tx, venta)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Detalle(ctx, ventaID)
}

// EliminarItem removes a line from a pending sale and restores its stock.
func (s *ventaService) EliminarItem(ctx context.Context, ventaID, detalleID uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, ventaID)
	if err != nil {
		return nil, errors.New("venta no encontrada")
	}
	if venta.Estado != "pendiente" {
		return nil, ErrVentaNoPendiente
	}

	var detalle *model.DetalleVenta
	for i := range venta.Detalles {
		if venta.Detalles[i].ID == detalleID {
			detalle = &venta.Detalles[i]
			break
		}
	}
	if detalle == nil {
		return nil, errors.New("detalle no encontrado en la venta")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.productoRepo.FindByIDForUpdate(ctx, tx, detalle.ProductoID)
		if err != nil {
			return err
		}
		stockAnterior := p.Cantidad
		if err := s.productoRepo.UpdateStockTx(tx, detalle.ProductoID, detalle.Cantidad); err != nil {
			return err
		}
		ventaRef := venta.ID
		mov := &model.MovimientoStock{
			ProductoID:    detalle.ProductoID,
			Tipo:          "reversa_item",
			Cantidad:      detalle.Cantidad,
			StockAnterior: stockAnterior,
			StockNuevo:    stockAnterior.Add(detalle.Cantidad),
			Motivo:        fmt.Sprintf("Item eliminado de venta #%d", venta.NumeroVenta),
			ReferenciaID:  &ventaRef,
		}
		if err := s.productoRepo.CreateMovimientoTx(tx, mov); err != nil {
			return err
		}
		if err := s.repo.DeleteDetalleTx(tx, detalleID); err != nil {
			return err
		}
		venta.Subtotal = venta.Subtotal.Sub(detalle.Subtotal)
		venta.Total = venta.Subtotal.Sub(venta.Descuento)
		return s.repo.UpdateTx(tx, venta)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Detalle(ctx, ventaID)
}

// ProcesarPendiente completes a draft sale with its payments.
func (s *ventaService) ProcesarPendiente(ctx context.Context, ventaID uuid.UUID, req dto.PagarVentaRequest) (*dto.ProcesarVentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, ventaID)
	if err != nil {
		return nil, errors.New("venta no encontrada")
	}
	if venta.Estado != "pendiente" {
		return nil, ErrVentaNoPendiente
	}
	if len(venta.Detalles) == 0 {
		return nil, errors.New("la venta no tiene items")
	}

	var alumno *model.Alumno
	if venta.AlumnoID != nil {
		alumno, err = s.alumnoRepo.FindByID(ctx, *venta.AlumnoID)
		if err != nil {
			return nil, errors.New("alumno no encontrado")
		}
	}

	if req.Descuento.IsNegative() || req.Descuento.GreaterThan(venta.Subtotal) {
		return nil, errors.New("descuento inválido")
	}
	total := venta.Subtotal.Sub(req.Descuento)

	pagos, cambio, err := s.resolverPagos(ctx, req.Pagos, total, alumno)
	if err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, p := range pagos {
			ref := p.referencia
			pago := &model.PagoVenta{
				VentaID:      venta.ID,
				MetodoPagoID: p.metodo.ID,
				Monto:        p.monto,
				TasaPct:      p.metodo.TasaPct,
				MontoFinal:   p.montoFinal,
			}
			if ref != "" {
				pago.Referencia = &ref
			}
			if err := s.repo.CreatePagoTx(tx, pago); err != nil {
				return err
			}
			if p.metodo.Tipo == "saldo" {
				desc := fmt.Sprintf("Consumo venta #%d", venta.NumeroVenta)
				if _, err := s.saldo.ConsumirSaldoTx(ctx, tx, alumno.ID, p.monto, desc, &venta.ID); err != nil {
					return err
				}
			}
		}
		venta.Descuento = req.Descuento
		venta.Total = total
		venta.Estado = "completada"
		return s.repo.UpdateTx(tx, venta)
	})
	if txErr != nil {
		return nil, txErr
	}

	if alumno != nil {
		s.saldo.InvalidarTarjeta(ctx, alumno.NumeroTarjeta)
	}
	s.despacharFacturacion(ctx, venta.ID)

	return &dto.ProcesarVentaResponse{
		Success:     true,
		VentaID:     venta.ID.String(),
		NumeroVenta: venta.NumeroVenta,
		Total:       total,
		Cambio:      cambio,
	}, nil
}

// ── AnularVenta ───────────────────────────────────────────────────────────────

// AnularVenta voids a sale: stock is restored, saldo tenders are refunded, and
// the estado flips to anulada — all in one transaction.
func (s *ventaService) AnularVenta(ctx context.Context, id, adminID uuid.UUID, motivo string) error {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("venta no encontrada")
	}
	if venta.Estado == "anulada" {
		return ErrVentaAnulada
	}

	var alumno *model.Alumno
	if venta.Estado == "completada" && venta.AlumnoID != nil {
		if alumno, err = s.alumnoRepo.FindByID(ctx, *venta.AlumnoID); err != nil {
			return errors.New("alumno no encontrado")
		}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, detalle := range venta.Detalles {
			p, err := s.productoRepo.FindByIDForUpdate(ctx, tx, detalle.ProductoID)
			if err != nil {
				return err
			}
			stockAnterior := p.Cantidad
			if err := s.productoRepo.UpdateStockTx(tx, detalle.ProductoID, detalle.Cantidad); err != nil {
				return err
			}
			ventaRef := venta.ID
			mov := &model.MovimientoStock{
				ProductoID:    detalle.ProductoID,
				Tipo:          "reversa_anulacion",
				Cantidad:      detalle.Cantidad,
				StockAnterior: stockAnterior,
				StockNuevo:    stockAnterior.Add(detalle.Cantidad),
				Motivo:        fmt.Sprintf("Anulación venta #%d — %s", venta.NumeroVenta, motivo),
				ReferenciaID:  &ventaRef,
			}
			if err := s.productoRepo.CreateMovimientoTx(tx, mov); err != nil {
				return err
			}
		}

		// Refund saldo tenders back to the card.
		if venta.Estado == "completada" && venta.AlumnoID != nil {
			for _, pago := range venta.Pagos {
				if pago.MetodoPago != nil && pago.MetodoPago.Tipo == "saldo" {
					desc := fmt.Sprintf("Devolución por anulación de venta #%d", venta.NumeroVenta)
					if _, err := s.saldo.DevolverSaldoTx(ctx, tx, *venta.AlumnoID, pago.Monto, desc, &venta.ID); err != nil {
						return err
					}
				}
			}
		}

		venta.Estado = "anulada"
		obs := fmt.Sprintf("Anulada por %s — %s", adminID, motivo)
		venta.Observaciones = &obs
		return s.repo.UpdateTx(tx, venta)
	})
	if txErr != nil {
		return txErr
	}

	if alumno != nil {
		s.saldo.InvalidarTarjeta(ctx, alumno.NumeroTarjeta)
	}
	return nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *ventaService) Detalle(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("venta no encontrada")
	}
	return ventaToResponse(venta), nil
}

func (s *ventaService) ListVentas(ctx context.Context, filter dto.ListVentasQuery) ([]dto.VentaResponse, int64, error) {
	if filter.Pagina < 1 {
		filter.Pagina = 1
	}
	if filter.Limite < 1 {
		filter.Limite = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		items = append(items, *ventaToResponse(&ventas[i]))
	}
	return items, total, nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	detalles := make([]dto.DetalleVentaResponse, 0, len(v.Detalles))
	for _, d := range v.Detalles {
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		detalles = append(detalles, dto.DetalleVentaResponse{
			ID:             d.ID.String(),
			ProductoID:     d.ProductoID.String(),
			Producto:       nombre,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			DescuentoItem:  d.DescuentoItem,
			Subtotal:       d.Subtotal,
		})
	}
	pagos := make([]dto.PagoVentaResponse, 0, len(v.Pagos))
	for _, p := range v.Pagos {
		metodo := ""
		if p.MetodoPago != nil {
			metodo = p.MetodoPago.Nombre
		}
		pr := dto.PagoVentaResponse{
			ID:         p.ID.String(),
			MetodoPago: metodo,
			Monto:      p.Monto,
			TasaPct:    p.TasaPct,
			MontoFinal: p.MontoFinal,
		}
		if p.Referencia != nil {
			pr.Referencia = *p.Referencia
		}
		pagos = append(pagos, pr)
	}

	resp := &dto.VentaResponse{
		ID:          v.ID.String(),
		NumeroVenta: v.NumeroVenta,
		CajeroID:    v.CajeroID.String(),
		TurnoID:     v.TurnoID.String(),
		Estado:      v.Estado,
		Subtotal:    v.Subtotal,
		Descuento:   v.Descuento,
		Total:       v.Total,
		Fecha:       v.CreatedAt,
		Detalles:    detalles,
		Pagos:       pagos,
	}
	if v.AlumnoID != nil {
		aID := v.AlumnoID.String()
		resp.AlumnoID = &aID
	}
	return resp
}
