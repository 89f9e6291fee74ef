package signature

import (
	"context"

	"github.com/formadoc/FormaSign/internal/constant"
	"github.com/formadoc/FormaSign/internal/model"
	"github.com/formadoc/FormaSign/internal/repository"
	"go.uber.org/zap"
)

// ShareFailure records one peer the fan-out could not cover.
type ShareFailure struct {
	UserID string `json:"userId"`
	Error  string `json:"error"`
}

// ShareOutcome is the structured result of a fan-out: which peers received a
// record and which failed. The fan-out is best-effort; one bad peer never
// aborts the batch.
type ShareOutcome struct {
	Succeeded []string       `json:"succeeded"`
	Failed    []ShareFailure `json:"failed"`
}

// Shared reports whether at least one peer record was created.
func (o ShareOutcome) Shared() bool {
	return len(o.Succeeded) > 0
}

// Sharer propagates a company representative's signature to every co-enrolled
// learner of that company: the representative signs once per training, and
// each learner's agreement must display that same signature.
type Sharer struct {
	resolver     *Resolver
	records      *repository.SignatureRecordRepository
	participants *repository.ParticipantRepository
	logger       *zap.SugaredLogger
}

func NewSharer(resolver *Resolver, repo *repository.Repository, logger *zap.SugaredLogger) *Sharer {
	return &Sharer{
		resolver:     resolver,
		records:      repo.SignatureRecord,
		participants: repo.Participant,
		logger:       logger,
	}
}

// ShareRepresentative fans the originating user's representative signature
// out to the company's other participants in the training. Peers that already
// hold a representative record are skipped, so repeated calls are no-ops.
func (s *Sharer) ShareRepresentative(ctx context.Context, trainingId string, originUserId string, companyId string, dt constant.DocumentType) (ShareOutcome, error) {
	var outcome ShareOutcome

	if trainingId == "" {
		return outcome, &ValidationError{Field: "trainingId", Reason: "trainingId is required"}
	}
	if originUserId == "" {
		return outcome, &ValidationError{Field: "userId", Reason: "originating userId is required"}
	}
	if companyId == "" {
		return outcome, &ValidationError{Field: "companyId", Reason: "companyId is required"}
	}
	if dt == "" {
		dt = constant.DocumentTypeConvention
	}

	origin, err := s.resolver.Find(ctx, Criteria{
		SignatureType: constant.SignatureTypeRepresentative,
		DocumentType:  dt,
		TrainingID:    trainingId,
		UserID:        originUserId,
		CompanyID:     companyId,
	})
	if err != nil {
		return outcome, err
	}
	if !origin.Found {
		// Nothing to share yet.
		return outcome, nil
	}

	peers, err := s.participants.ListByTrainingAndCompany(ctx, nil, trainingId, companyId)
	if err != nil {
		return outcome, err
	}

	for _, peer := range peers {
		if peer.UserID == originUserId {
			continue
		}

		userId := peer.UserID
		record := &model.SignatureRecord{
			TrainingID:    trainingId,
			UserID:        &userId,
			SignatureType: constant.SignatureTypeRepresentative,
			DocumentType:  dt,
			FileURL:       origin.URL,
			Filename:      origin.Filename,
			Title:         constant.SignatureTypeRepresentative.Title(),
			Metadata: map[string]any{
				constant.METADATA_COMPANY_ID:            companyId,
				constant.METADATA_SHARED_FROM:           originUserId,
				constant.METADATA_ORIGINAL_SIGNATURE_ID: origin.ID,
			},
		}

		created, err := s.records.CreateIfAbsent(ctx, record)
		if err != nil {
			s.logger.Warnf("failed to share representative signature to peer %s: %v", peer.UserID, err)
			outcome.Failed = append(outcome.Failed, ShareFailure{UserID: peer.UserID, Error: err.Error()})
			continue
		}
		if !created {
			// Peer already holds a representative record; repeated calls are
			// no-ops.
			continue
		}

		outcome.Succeeded = append(outcome.Succeeded, peer.UserID)
	}

	return outcome, nil
}
