package controller

import (
	"errors"
	"net/http"
	"sync"

	"github.com/formadoc/FormaSign/internal/constant"
	"github.com/formadoc/FormaSign/internal/signature"
	"github.com/formadoc/FormaSign/internal/util"
	"github.com/gin-gonic/gin"
)

type AgreementController struct {
	*baseController
}

var agreementSlots = []constant.SignatureType{
	constant.SignatureTypeParticipant,
	constant.SignatureTypeRepresentative,
	constant.SignatureTypeCompanySeal,
	constant.SignatureTypeOrganizationSeal,
	constant.SignatureTypeTrainer,
}

// Bootstrap reads the durable local mirror synchronously, no network calls.
// The client paints the previously-known-good URLs immediately while the full
// resolution refreshes in the background.
func (ac AgreementController) Bootstrap(ctx *gin.Context) {
	trainingId := ctx.Params.ByName("trainingId")
	participantId := ctx.Params.ByName("participantId")
	if trainingId == "" || participantId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Training id and participant id are required", util.GenerateErrorMessages(errors.New("training id and participant id are required")), nil)
		return
	}

	snapshot := ac.app.Mirror.Load(trainingId, participantId)

	util.ResponseSuccess(ctx, gin.H{
		"snapshot": snapshot,
	})
}

// Slots resolves every signature slot of the agreement. The five lookups are
// independent and run concurrently; results are keyed by slot, so completion
// order does not matter.
func (ac AgreementController) Slots(ctx *gin.Context) {
	trainingId := ctx.Params.ByName("trainingId")
	participantId := ctx.Params.ByName("participantId")
	if trainingId == "" || participantId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Training id and participant id are required", util.GenerateErrorMessages(errors.New("training id and participant id are required")), nil)
		return
	}

	documentType := constant.DocumentType(ctx.DefaultQuery("documentType", string(constant.DocumentTypeConvention)))
	companyId := ctx.Query("companyId")

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[constant.SignatureType]signature.Result, len(agreementSlots))
	)

	for _, slot := range agreementSlots {
		wg.Add(1)
		go func(slot constant.SignatureType) {
			defer wg.Done()

			result, err := ac.app.Resolver.Find(ctx, signature.Criteria{
				SignatureType: slot,
				DocumentType:  documentType,
				TrainingID:    trainingId,
				UserID:        participantId,
				CompanyID:     companyId,
			})
			if err != nil {
				// A failed slot renders as unsigned; the agreement view never
				// hard-fails on a missing signature.
				ac.app.Logger.Warnf("Failed to resolve %s slot for training %s: %v", slot, trainingId, err)
			}

			mu.Lock()
			results[slot] = result
			mu.Unlock()
		}(slot)
	}

	wg.Wait()

	util.ResponseSuccess(ctx, gin.H{
		"participantSig":    results[constant.SignatureTypeParticipant],
		"representativeSig": results[constant.SignatureTypeRepresentative],
		"companySeal":       results[constant.SignatureTypeCompanySeal],
		"organizationSeal":  results[constant.SignatureTypeOrganizationSeal],
		"trainerSig":        results[constant.SignatureTypeTrainer],
	})
}
