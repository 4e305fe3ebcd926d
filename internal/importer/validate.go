package importer

// Validation messages are part of the operator-facing contract.
const (
	MsgOrderNumberMissing = "Número do pedido ausente"
	MsgOrderNumberExists  = "Número do pedido já existe"
)

// Validate assigns the tri-state status to every record. The existing set is a
// read-only snapshot fetched once before the run; records are never checked
// against each other, so duplicates introduced within the same file both pass.
func Validate(records []PreviewRecord, existing map[string]struct{}) []PreviewRecord {
	out := make([]PreviewRecord, len(records))
	for i, rec := range records {
		rec.Status = StatusValid
		rec.Messages = nil
		if rec.OrderNumber == "" {
			rec.Status = StatusInvalid
			rec.Messages = append(rec.Messages, MsgOrderNumberMissing)
		} else if _, ok := existing[rec.OrderNumber]; ok {
			rec.Status = StatusDuplicate
			rec.Messages = append(rec.Messages, MsgOrderNumberExists)
		}
		out[i] = rec
	}
	return out
}

// ValidOnly filters the records the commit step is allowed to receive.
func ValidOnly(records []PreviewRecord) []PreviewRecord {
	var out []PreviewRecord
	for _, rec := range records {
		if rec.Status == StatusValid {
			out = append(out, rec)
		}
	}
	return out
}
