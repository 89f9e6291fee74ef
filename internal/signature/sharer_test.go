package signature

import (
	"context"
	"errors"
	"testing"

	"github.com/formadoc/FormaSign/internal/constant"
	"github.com/formadoc/FormaSign/internal/model"
	"github.com/formadoc/FormaSign/internal/repository"
)

func seedParticipants(t *testing.T, e *testEngine, trainingId string, companyId string, userIds ...string) {
	t.Helper()

	for _, uid := range userIds {
		_, err := e.repo.Participant.Create(context.Background(), nil, &model.TrainingParticipant{
			TrainingID: trainingId,
			UserID:     uid,
			CompanyID:  companyId,
		})
		if err != nil {
			t.Fatalf("failed to seed participant %s: %v", uid, err)
		}
	}
}

func seedRepresentativeSignature(t *testing.T, e *testEngine, trainingId string, userId string, companyId string) *model.SignatureRecord {
	t.Helper()

	record := &model.SignatureRecord{
		TrainingID:    trainingId,
		UserID:        strPtr(userId),
		SignatureType: constant.SignatureTypeRepresentative,
		DocumentType:  constant.DocumentTypeConvention,
		FileURL:       "https://cdn.test/signatures/rep.png",
		Filename:      "rep.png",
		Title:         constant.SignatureTypeRepresentative.Title(),
		Metadata:      map[string]any{constant.METADATA_COMPANY_ID: companyId},
	}
	if _, err := e.repo.SignatureRecord.Create(context.Background(), nil, record); err != nil {
		t.Fatalf("failed to seed representative signature: %v", err)
	}

	return record
}

func TestShareRepresentativeFansOutToCompanyPeers(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	seedParticipants(t, e, "t1", "c1", "u1", "u2", "u3")
	seedParticipants(t, e, "t1", "c2", "u4")
	origin := seedRepresentativeSignature(t, e, "t1", "u1", "c1")

	outcome, err := e.sharer.ShareRepresentative(ctx, "t1", "u1", "c1", constant.DocumentTypeConvention)
	if err != nil {
		t.Fatalf("ShareRepresentative() error = %v", err)
	}

	if !outcome.Shared() {
		t.Fatalf("expected at least one peer record, got %+v", outcome)
	}
	if len(outcome.Succeeded) != 2 || len(outcome.Failed) != 0 {
		t.Fatalf("outcome = %+v, want u2 and u3", outcome)
	}

	for _, peer := range []string{"u2", "u3"} {
		record, err := e.repo.SignatureRecord.FindCurrent(ctx, nil, repository.SignatureRecordQuery{
			SignatureType: constant.SignatureTypeRepresentative,
			DocumentType:  constant.DocumentTypeConvention,
			TrainingID:    "t1",
			UserID:        peer,
		})
		if err != nil {
			t.Fatalf("peer %s record missing: %v", peer, err)
		}

		if record.FileURL != origin.FileURL {
			t.Errorf("peer %s url = %s, want origin url", peer, record.FileURL)
		}
		if got := record.MetadataString(constant.METADATA_SHARED_FROM); got != "u1" {
			t.Errorf("peer %s sharedFrom = %s, want u1", peer, got)
		}
		if got := record.MetadataString(constant.METADATA_COMPANY_ID); got != "c1" {
			t.Errorf("peer %s companyId = %s, want c1", peer, got)
		}
		if got := record.MetadataString(constant.METADATA_ORIGINAL_SIGNATURE_ID); got != origin.ID {
			t.Errorf("peer %s originalSignatureId = %s, want %s", peer, got, origin.ID)
		}
	}

	// u4 belongs to another company and must be untouched.
	exists, err := e.repo.SignatureRecord.ExistsFor(ctx, nil, "t1", "u4", constant.SignatureTypeRepresentative, constant.DocumentTypeConvention)
	if err != nil {
		t.Fatalf("ExistsFor() error = %v", err)
	}
	if exists {
		t.Errorf("u4 is outside the company and must not receive a record")
	}
}

func TestShareRepresentativeIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	seedParticipants(t, e, "t1", "c1", "u1", "u2")
	seedRepresentativeSignature(t, e, "t1", "u1", "c1")

	first, err := e.sharer.ShareRepresentative(ctx, "t1", "u1", "c1", constant.DocumentTypeConvention)
	if err != nil {
		t.Fatalf("first share error = %v", err)
	}
	if len(first.Succeeded) != 1 {
		t.Fatalf("first outcome = %+v", first)
	}

	second, err := e.sharer.ShareRepresentative(ctx, "t1", "u1", "c1", constant.DocumentTypeConvention)
	if err != nil {
		t.Fatalf("second share error = %v", err)
	}
	if second.Shared() {
		t.Errorf("repeated share must be a no-op, got %+v", second)
	}

	var count int64
	if err := e.repo.DB.Model(&model.SignatureRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count error = %v", err)
	}
	if count != 2 {
		t.Errorf("record count = %d, want origin plus one peer copy", count)
	}
}

func TestShareRepresentativeWithoutOriginSignature(t *testing.T) {
	e := newTestEngine(t)

	seedParticipants(t, e, "t1", "c1", "u1", "u2")

	outcome, err := e.sharer.ShareRepresentative(context.Background(), "t1", "u1", "c1", constant.DocumentTypeConvention)
	if err != nil {
		t.Fatalf("expected soft no-op when origin has not signed, got %v", err)
	}
	if outcome.Shared() || len(outcome.Failed) != 0 {
		t.Errorf("outcome = %+v, want empty", outcome)
	}
}

func TestShareRepresentativeValidation(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		trainingId string
		userId     string
		company    string
		wantField  string
	}{
		{"missing training", "", "u1", "c1", "trainingId"},
		{"missing user", "t1", "", "c1", "userId"},
		{"missing company", "t1", "u1", "", "companyId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.sharer.ShareRepresentative(ctx, tt.trainingId, tt.userId, tt.company, constant.DocumentTypeConvention)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field = %s, want %s", verr.Field, tt.wantField)
			}
		})
	}
}

func TestShareRepresentativeDefaultsToConvention(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	seedParticipants(t, e, "t1", "c1", "u1", "u2")
	seedRepresentativeSignature(t, e, "t1", "u1", "c1")

	outcome, err := e.sharer.ShareRepresentative(ctx, "t1", "u1", "c1", "")
	if err != nil {
		t.Fatalf("ShareRepresentative() error = %v", err)
	}
	if len(outcome.Succeeded) != 1 {
		t.Fatalf("outcome = %+v", outcome)
	}

	exists, err := e.repo.SignatureRecord.ExistsFor(ctx, nil, "t1", "u2", constant.SignatureTypeRepresentative, constant.DocumentTypeConvention)
	if err != nil {
		t.Fatalf("ExistsFor() error = %v", err)
	}
	if !exists {
		t.Errorf("expected convention record for peer")
	}
}
