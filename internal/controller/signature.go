package controller

import (
	"errors"
	"net/http"

	"github.com/formadoc/FormaSign/internal/constant"
	"github.com/formadoc/FormaSign/internal/signature"
	"github.com/formadoc/FormaSign/internal/util"
	"github.com/gin-gonic/gin"
)

type SignatureController struct {
	*baseController
}

const ErrTrainingIdRequired = "training id is required"

// Resolve runs the lookup chain for one signature slot. A miss is a normal
// 200 with found:false; the client renders the unsigned placeholder.
func (sc SignatureController) Resolve(ctx *gin.Context) {
	trainingId := ctx.Params.ByName("trainingId")
	if trainingId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Training id is required", util.GenerateErrorMessages(errors.New(ErrTrainingIdRequired), "trainingId"), nil)
		return
	}

	criteria := signature.Criteria{
		SignatureType: constant.SignatureType(ctx.Query("signatureType")),
		DocumentType:  constant.DocumentType(ctx.Query("documentType")),
		TrainingID:    trainingId,
		UserID:        ctx.Query("userId"),
		CompanyID:     ctx.Query("companyId"),
	}

	result, err := sc.app.Resolver.Find(ctx, criteria)
	if err != nil {
		var ve *signature.ValidationError
		if errors.As(err, &ve) {
			util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err, ve.Field), nil)
			return
		}

		sc.app.Logger.Errorf("Failed to resolve signature: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to resolve signature", util.GenerateErrorMessages(err), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"signature": result,
	})
}

// Persist saves a new signature/seal drawn on the client signature pad.
func (sc SignatureController) Persist(ctx *gin.Context) {
	type Request struct {
		SignatureType string         `json:"signatureType" binding:"required,strNotEmpty"`
		DocumentType  string         `json:"documentType" binding:"required,strNotEmpty"`
		UserID        string         `json:"userId"`
		Image         string         `json:"image" binding:"required,strNotEmpty"`
		Metadata      map[string]any `json:"metadata"`
	}

	trainingId := ctx.Params.ByName("trainingId")
	if trainingId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Training id is required", util.GenerateErrorMessages(errors.New(ErrTrainingIdRequired), "trainingId"), nil)
		return
	}

	var body Request
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sc.app.Logger.Errorf("Failed to bind request: %v", err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	// The signing user defaults to the authenticated session when the body
	// does not name one.
	if body.UserID == "" {
		if user, err := sc.getAuthUser(ctx); err == nil {
			body.UserID = user.ID
		}
	}

	result, err := sc.app.Persister.SaveDataURL(ctx, body.Image, signature.SaveOptions{
		SignatureType: constant.SignatureType(body.SignatureType),
		DocumentType:  constant.DocumentType(body.DocumentType),
		TrainingID:    trainingId,
		UserID:        body.UserID,
		Metadata:      body.Metadata,
	})
	if err != nil {
		var ve *signature.ValidationError
		var ue *signature.UploadError
		var pe *signature.PersistError

		switch {
		case errors.As(err, &ve):
			util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid signature", util.GenerateErrorMessages(err, ve.Field), nil)
		case errors.As(err, &ue):
			sc.app.Logger.Errorf("Signature upload failed: %v", err)
			util.ResponseFailed(ctx, http.StatusBadGateway, "Failed to upload signature", util.GenerateErrorMessages(err), nil)
		case errors.As(err, &pe):
			// Upload succeeded but the record insert did not; hand the
			// orphaned URL back so it can be reconciled.
			sc.app.Logger.Errorf("Signature persist failed: %v", err)
			util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to record signature", util.GenerateErrorMessages(err), gin.H{
				"orphanedUrl": pe.URL,
			})
		default:
			sc.app.Logger.Errorf("Failed to save signature: %v", err)
			util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to save signature", util.GenerateErrorMessages(err), nil)
		}
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"signature": result,
	})
}

// Share fans the representative signature out to every co-enrolled learner of
// the same company.
func (sc SignatureController) Share(ctx *gin.Context) {
	type Request struct {
		UserID       string `json:"userId" binding:"required,strNotEmpty"`
		CompanyID    string `json:"companyId" binding:"required,strNotEmpty"`
		DocumentType string `json:"documentType"`
	}

	trainingId := ctx.Params.ByName("trainingId")
	if trainingId == "" {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Training id is required", util.GenerateErrorMessages(errors.New(ErrTrainingIdRequired), "trainingId"), nil)
		return
	}

	var body Request
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sc.app.Logger.Errorf("Failed to bind request: %v", err)
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	outcome, err := sc.app.Sharer.ShareRepresentative(ctx, trainingId, body.UserID, body.CompanyID, constant.DocumentType(body.DocumentType))
	if err != nil {
		var ve *signature.ValidationError
		if errors.As(err, &ve) {
			util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err, ve.Field), nil)
			return
		}

		sc.app.Logger.Errorf("Failed to share signature: %v", err)
		util.ResponseFailed(ctx, http.StatusInternalServerError, "Failed to share signature", util.GenerateErrorMessages(err), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"shared":    outcome.Shared(),
		"succeeded": outcome.Succeeded,
		"failed":    outcome.Failed,
	})
}
