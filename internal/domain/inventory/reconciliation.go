package inventory

import "github.com/comedor-app/comedor-api/internal/domain/entity"

// PendingEdit es una edición de cantidad sin guardar: el objetivo solicitado y la
// base (última cantidad conocida) contra la que se calculó la diferencia.
type PendingEdit struct {
	Baseline int64
	Target   int64
}

// ReconciliationBuffer acumula las ediciones de cantidad pendientes de una sesión de
// edición del tablero, diffeadas contra la base original. Una entrada existe solo
// mientras el objetivo difiere de la base: volver a la base elimina la entrada, de
// modo que el indicador de "cambios sin guardar" desaparece si el usuario incrementa
// y luego decrementa al valor original.
//
// El buffer es estado en memoria de una sola sesión: nunca se persiste ni se comparte
// entre sesiones; se descarta al enviar, cancelar o navegar fuera del tablero.
type ReconciliationBuffer struct {
	edits map[entity.RecordKey]PendingEdit
}

// NewReconciliationBuffer crea un buffer vacío (estado CLEAN para toda clave).
func NewReconciliationBuffer() *ReconciliationBuffer {
	return &ReconciliationBuffer{edits: make(map[entity.RecordKey]PendingEdit)}
}

// SetQuantity registra una edición directa. El valor solicitado se hace clamp a >= 0;
// si el valor resultante es igual a la base, la entrada se elimina (estado CLEAN).
func (b *ReconciliationBuffer) SetQuantity(key entity.RecordKey, baseline, requested int64) {
	if requested < 0 {
		requested = 0
	}
	if requested == baseline {
		delete(b.edits, key)
		return
	}
	b.edits[key] = PendingEdit{Baseline: baseline, Target: requested}
}

// Adjust aplica un delta de los controles rápidos +/- sobre el valor pendiente actual
// (o la base si la clave está limpia), sin perder ediciones directas previas.
func (b *ReconciliationBuffer) Adjust(key entity.RecordKey, baseline, delta int64) {
	current := baseline
	if edit, ok := b.edits[key]; ok {
		current = edit.Target
	}
	b.SetQuantity(key, baseline, current+delta)
}

// IsDirty indica si existe alguna edición pendiente.
func (b *ReconciliationBuffer) IsDirty() bool {
	return len(b.edits) > 0
}

// Pending devuelve la edición pendiente de una clave, si existe.
func (b *ReconciliationBuffer) Pending(key entity.RecordKey) (PendingEdit, bool) {
	edit, ok := b.edits[key]
	return edit, ok
}

// PendingEdits devuelve una copia de las ediciones en estado DIRTY.
func (b *ReconciliationBuffer) PendingEdits() map[entity.RecordKey]PendingEdit {
	out := make(map[entity.RecordKey]PendingEdit, len(b.edits))
	for k, v := range b.edits {
		out[k] = v
	}
	return out
}

// MarkApplied elimina las claves que ya fueron confirmadas por el coordinador.
// Las claves que fallaron permanecen DIRTY para reintentar solo ese subconjunto.
func (b *ReconciliationBuffer) MarkApplied(keys []entity.RecordKey) {
	for _, k := range keys {
		delete(b.edits, k)
	}
}

// Clear descarta todas las ediciones pendientes (cancelar o envío exitoso).
func (b *ReconciliationBuffer) Clear() {
	b.edits = make(map[entity.RecordKey]PendingEdit)
}
