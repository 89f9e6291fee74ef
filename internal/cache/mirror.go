package cache

import (
	"errors"
	"time"

	"github.com/formadoc/FormaSign/internal/constant"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// AgreementSnapshot is the durable mirror row for one (training, participant)
// pair: the last known-good URL per signature slot. It bootstraps the
// in-memory cache synchronously before any network call so a consumer can
// render optimistically. Last-write-wins, no merge; the remote store stays
// authoritative.
type AgreementSnapshot struct {
	TrainingID    string `gorm:"primaryKey" json:"trainingId"`
	ParticipantID string `gorm:"primaryKey" json:"participantId"`

	ParticipantSig    string `json:"participantSig"`
	RepresentativeSig string `json:"representativeSig"`
	CompanySeal       string `json:"companySeal"`
	OrganizationSeal  string `json:"organizationSeal"`
	TrainerSig        string `json:"trainerSig"`

	Timestamp time.Time `json:"timestamp"`
}

func (s AgreementSnapshot) TableName() string {
	return "agreement_snapshots"
}

func (s *AgreementSnapshot) SetURL(st constant.SignatureType, url string) {
	switch st {
	case constant.SignatureTypeParticipant:
		s.ParticipantSig = url
	case constant.SignatureTypeRepresentative:
		s.RepresentativeSig = url
	case constant.SignatureTypeCompanySeal:
		s.CompanySeal = url
	case constant.SignatureTypeOrganizationSeal:
		s.OrganizationSeal = url
	case constant.SignatureTypeTrainer:
		s.TrainerSig = url
	}
}

func (s AgreementSnapshot) URLFor(st constant.SignatureType) string {
	switch st {
	case constant.SignatureTypeParticipant:
		return s.ParticipantSig
	case constant.SignatureTypeRepresentative:
		return s.RepresentativeSig
	case constant.SignatureTypeCompanySeal:
		return s.CompanySeal
	case constant.SignatureTypeOrganizationSeal:
		return s.OrganizationSeal
	case constant.SignatureTypeTrainer:
		return s.TrainerSig
	}

	return ""
}

// Mirror is the persistent-local half of the cache layer, backed by an
// embedded sqlite file.
type Mirror struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
	now    func() time.Time
}

func OpenMirror(path string, logger *zap.SugaredLogger) (*Mirror, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&AgreementSnapshot{}); err != nil {
		return nil, err
	}

	return &Mirror{db: db, logger: logger, now: time.Now}, nil
}

// Load reads the snapshot synchronously. A miss or a read failure returns
// nil: the mirror is an optimization layer, never an error source.
func (m *Mirror) Load(trainingId string, participantId string) *AgreementSnapshot {
	var snapshot AgreementSnapshot
	err := m.db.
		Where("training_id = ?", trainingId).
		Where("participant_id = ?", participantId).
		First(&snapshot).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			m.logger.Debugf("mirror load failed for %s/%s: %v", trainingId, participantId, err)
		}
		return nil
	}

	return &snapshot
}

// Store upserts one slot of the snapshot.
func (m *Mirror) Store(trainingId string, participantId string, st constant.SignatureType, url string) error {
	var snapshot AgreementSnapshot
	err := m.db.
		Where("training_id = ?", trainingId).
		Where("participant_id = ?", participantId).
		First(&snapshot).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	snapshot.TrainingID = trainingId
	snapshot.ParticipantID = participantId
	snapshot.SetURL(st, url)
	snapshot.Timestamp = m.now()

	return m.db.Save(&snapshot).Error
}
