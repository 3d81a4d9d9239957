package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priscom/ledger-api/internal/domain"
)

func i64(v int64) *int64 { return &v }

// El ajuste manual FIJA los contadores presentes y no toca los omitidos.
func TestManualAdjust_FijaSinSumar(t *testing.T) {
	e := newTestEnv()
	day := date(2026, 3, 1)
	seedItem(e, 1, "central", day, 50, 20, 5, 0)

	rec, err := e.svc.ManualAdjust(context.Background(), mdActor(), AdjustInput{
		ItemID:   1,
		Date:     day,
		StockOut: i64(12),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), rec.StockOut, "el valor se fija, no se suma")
	assert.Equal(t, int64(20), rec.SuppliedQuantity, "contador omitido intacto")
	assert.Equal(t, int64(50), rec.OpenBalance)
	assert.Equal(t, int64(58), rec.ClosingBalance())
}

// Sin fila para la fecha, el ajuste crea una con arrastre del cierre previo.
func TestManualAdjust_CreaFilaConArrastre(t *testing.T) {
	e := newTestEnv()
	seedItem(e, 1, "central", date(2026, 3, 1), 0, 100, 40, 0) // cierre 60

	rec, err := e.svc.ManualAdjust(context.Background(), mdActor(), AdjustInput{
		ItemID:           1,
		Date:             date(2026, 3, 2),
		SuppliedQuantity: i64(10),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(60), rec.OpenBalance)
	assert.Equal(t, int64(70), rec.ClosingBalance())
}

// El ajuste no pasa por el guard: puede dejar el cierre negativo a propósito
// (corrección de inventario real).
func TestManualAdjust_SinGuardDeDisponibilidad(t *testing.T) {
	e := newTestEnv()
	day := date(2026, 3, 1)
	seedItem(e, 1, "central", day, 10, 0, 0, 0)

	rec, err := e.svc.ManualAdjust(context.Background(), mdActor(), AdjustInput{
		ItemID:   1,
		Date:     day,
		StockOut: i64(25),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-15), rec.ClosingBalance())
}

func TestManualAdjust_EmpleadoRequiereCodigo(t *testing.T) {
	e := newTestEnv()
	day := date(2026, 3, 1)
	seedItem(e, 1, "central", day, 10, 0, 0, 0)

	// Sin código → prohibido.
	_, err := e.svc.ManualAdjust(context.Background(), empActor(), AdjustInput{
		ItemID: 1, Date: day, StockOut: i64(2),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Código incorrecto → prohibido.
	_, err = e.svc.ManualAdjust(context.Background(), empActor(), AdjustInput{
		ItemID: 1, Date: day, StockOut: i64(2), AccessCode: "9999",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Código correcto → pasa.
	rec, err := e.svc.ManualAdjust(context.Background(), empActor(), AdjustInput{
		ItemID: 1, Date: day, StockOut: i64(2), AccessCode: "1234",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.StockOut)
}

func TestManualAdjust_ContadorNegativoRechazado(t *testing.T) {
	e := newTestEnv()
	seedItem(e, 1, "central", date(2026, 3, 1), 10, 0, 0, 0)
	_, err := e.svc.ManualAdjust(context.Background(), mdActor(), AdjustInput{
		ItemID: 1, StockOut: i64(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// La devolución es aditiva sobre return_quantity y sube el cierre.
func TestReturnItem_SumaDevolucion(t *testing.T) {
	e := newTestEnv()
	day := date(2026, 3, 1)
	seedItem(e, 1, "central", day, 0, 100, 40, 0) // cierre 60

	rec, err := e.svc.ReturnItem(context.Background(), mdActor(), ReturnInput{
		ItemID:     1,
		Quantity:   3,
		Date:       day,
		AccessCode: "1234",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.ReturnQuantity)
	assert.Equal(t, int64(63), rec.ClosingBalance())
}

func TestReturnItem_PorNombre(t *testing.T) {
	e := newTestEnv()
	day := date(2026, 3, 1)
	seedItem(e, 1, "central", day, 0, 10, 0, 0)

	rec, err := e.svc.ReturnItem(context.Background(), mdActor(), ReturnInput{
		ItemName:   "arroz 1kg",
		Quantity:   2,
		Date:       day,
		AccessCode: "1234",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ItemID)
	assert.Equal(t, int64(2), rec.ReturnQuantity)
}

func TestReturnItem_CodigoObligatorio(t *testing.T) {
	e := newTestEnv()
	day := date(2026, 3, 1)
	seedItem(e, 1, "central", day, 0, 10, 0, 0)

	_, err := e.svc.ReturnItem(context.Background(), mdActor(), ReturnInput{
		ItemID: 1, Quantity: 1, Date: day,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Tenant sin código configurado: nadie pasa, ni con código presentado.
	e.users.accessCode = ""
	_, err = e.svc.ReturnItem(context.Background(), mdActor(), ReturnInput{
		ItemID: 1, Quantity: 1, Date: day, AccessCode: "1234",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReturnItem_EmpleadoSoloHoy(t *testing.T) {
	e := newTestEnv()
	seedItem(e, 1, "central", date(2026, 3, 1), 0, 10, 0, 0)

	_, err := e.svc.ReturnItem(context.Background(), empActor(), ReturnInput{
		ItemID: 1, Quantity: 1, Date: date(2026, 3, 1), AccessCode: "1234",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
