package emission

import "github.com/despachanota/despachanota-api/internal/application/dto"

// pipelineLimit tamaño máximo del monitor de emisiones.
const pipelineLimit = 20

// Pipeline lista las emisiones visibles en el monitor del usuario: las no
// terminales más las que quedaron en error, más recientes primero.
func (o *Orchestrator) Pipeline(userID string) ([]*dto.PipelineItemResponse, error) {
	items, err := o.emissionRepo.ListInFlightByUser(userID, pipelineLimit)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PipelineItemResponse, 0, len(items))
	for _, it := range items {
		em := it.Emission
		out = append(out, &dto.PipelineItemResponse{
			ID:           em.ID,
			ConfigID:     em.ConfigID,
			ConfigName:   it.ConfigName,
			Status:       em.Status,
			PDFURL:       em.PDFURL,
			ErrorMessage: em.ErrorMessage,
			EmailSent:    em.EmailSent,
			EmittedAt:    em.EmittedAt,
		})
	}
	return out, nil
}
