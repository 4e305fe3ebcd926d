package importer

import (
	"fmt"
	"log"
)

// OrderCreator persists one imported order. itemErrs reports item rows that
// failed after the order row was created (the order is kept regardless); err
// reports that the order row itself could not be created.
type OrderCreator interface {
	CreateImportedOrder(rec PreviewRecord) (itemErrs []error, err error)
}

// CommitResult is the three-way tally reported to the operator. The import as
// a whole never fails: success + errors == valid records attempted, and
// success + errors + skipped == total records in the preview.
type CommitResult struct {
	Success  int      `json:"success"`
	Errors   int      `json:"errors"`
	Skipped  int      `json:"skipped"`
	Messages []string `json:"messages,omitempty"`
}

// Commit processes the preview strictly sequentially: per-record failure stays
// isolated and the tally deterministic. Only records whose status is Valid are
// attempted; everything else counts as skipped.
func Commit(records []PreviewRecord, creator OrderCreator) CommitResult {
	valid := ValidOnly(records)
	res := CommitResult{Skipped: len(records) - len(valid)}
	for _, rec := range valid {
		itemErrs, err := creator.CreateImportedOrder(rec)
		if err != nil {
			res.Errors++
			res.Messages = append(res.Messages, fmt.Sprintf("Erro ao importar pedido %s: %v", rec.OrderNumber, err))
			continue
		}
		res.Success++
		res.Messages = append(res.Messages, fmt.Sprintf("Pedido %s importado com sucesso", rec.OrderNumber))
		for _, ie := range itemErrs {
			// item failures do not roll back the order; surface them in the tally
			// messages and the diagnostic log only
			log.Printf("import: pedido %s: item não inserido: %v", rec.OrderNumber, ie)
			res.Messages = append(res.Messages, fmt.Sprintf("Pedido %s: item não inserido: %v", rec.OrderNumber, ie))
		}
	}
	return res
}
