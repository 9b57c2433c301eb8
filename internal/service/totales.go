package service

import (
	"comandapos/internal/model"

	"github.com/shopspring/decimal"
)

var cien = decimal.NewFromInt(100)

// montoLinea: subtotal = precio × cantidad − descuento; impuesto = subtotal × tasa / 100.
func montoLinea(precio, cantidad, descuento, tasa decimal.Decimal) (subtotal, impuesto decimal.Decimal) {
	subtotal = precio.Mul(cantidad).Sub(descuento).Round(2)
	impuesto = subtotal.Mul(tasa).Div(cien).Round(2)
	return subtotal, impuesto
}

func recalcularLinea(d *model.FacturaDetalle) {
	d.Subtotal, d.Impuesto = montoLinea(d.PrecioUnitario, d.Cantidad, d.Descuento, d.TasaImpuesto)
}

// recalcularFactura rehace subtotal e impuesto desde el conjunto completo de
// líneas y vuelve a derivar el total.
func recalcularFactura(f *model.Factura, detalles []model.FacturaDetalle) {
	subtotal, impuesto := decimal.Zero, decimal.Zero
	for _, d := range detalles {
		subtotal = subtotal.Add(d.Subtotal)
		impuesto = impuesto.Add(d.Impuesto)
	}
	f.Subtotal = subtotal
	f.Impuesto = impuesto
	f.Total = totalFactura(f)
}

// totalFactura = subtotal + impuesto − descuento + servicio + domicilio
func totalFactura(f *model.Factura) decimal.Decimal {
	return f.Subtotal.Add(f.Impuesto).Sub(f.Descuento).Add(f.CargoServicio).Add(f.CargoDomicilio)
}

// cargosCierre son los ajustes que se fijan al cobrar.
type cargosCierre struct {
	descuentoPct     decimal.Decimal
	cargoServicioPct decimal.Decimal
	cargoDomicilio   decimal.Decimal
}

// aplicarCargos fija descuento, servicio y domicilio en ese orden. Cada paso
// parte del total acumulado del paso anterior, así que los porcentajes se
// componen: el servicio se calcula sobre el total ya descontado.
func aplicarCargos(f *model.Factura, c cargosCierre) {
	base := f.Subtotal.Add(f.Impuesto)

	f.DescuentoPct = c.descuentoPct
	f.Descuento = decimal.Zero
	if c.descuentoPct.IsPositive() {
		f.Descuento = base.Mul(c.descuentoPct).Div(cien).Round(2)
	}
	total := base.Sub(f.Descuento)

	f.CargoServicioPct = c.cargoServicioPct
	f.CargoServicio = decimal.Zero
	if c.cargoServicioPct.IsPositive() {
		f.CargoServicio = total.Mul(c.cargoServicioPct).Div(cien).Round(2)
		total = total.Add(f.CargoServicio)
	}

	f.CargoDomicilio = decimal.Zero
	if c.cargoDomicilio.IsPositive() {
		f.CargoDomicilio = c.cargoDomicilio
		total = total.Add(c.cargoDomicilio)
	}
	f.Total = total
}

func (c cargosCierre) validar() error {
	if c.descuentoPct.IsNegative() || c.descuentoPct.GreaterThan(cien) {
		return errValidation("el descuento debe estar entre 0 y 100%%")
	}
	if c.cargoServicioPct.IsNegative() || c.cargoServicioPct.GreaterThan(cien) {
		return errValidation("el cargo por servicio debe estar entre 0 y 100%%")
	}
	if c.cargoDomicilio.IsNegative() {
		return errValidation("el cargo por domicilio no puede ser negativo")
	}
	return nil
}

// registrarCobro fija monto recibido y cambio. Sólo el efectivo exige cubrir el
// total; con los demás medios se cobra el total exacto si el monto viene corto.
func registrarCobro(f *model.Factura, metodo model.MetodoPago, recibido decimal.Decimal) error {
	if recibido.LessThan(f.Total) {
		if metodo == model.PagoEfectivo {
			return errValidation("monto recibido insuficiente: total %s, recibido %s",
				f.Total.StringFixed(2), recibido.StringFixed(2))
		}
		recibido = f.Total
	}
	f.MetodoPago = &metodo
	f.MontoRecibido = recibido
	f.Cambio = recibido.Sub(f.Total)
	return nil
}
