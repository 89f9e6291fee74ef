package constant

import "time"

type SignatureType string

const (
	SignatureTypeParticipant      SignatureType = "participant"
	SignatureTypeRepresentative   SignatureType = "representative"
	SignatureTypeTrainer          SignatureType = "trainer"
	SignatureTypeCompanySeal      SignatureType = "companySeal"
	SignatureTypeOrganizationSeal SignatureType = "organizationSeal"
)

type DocumentType string

const (
	DocumentTypeConvention  DocumentType = "convention"
	DocumentTypeAttestation DocumentType = "attestation"
	DocumentTypeEmargement  DocumentType = "emargement"
)

func (st SignatureType) Valid() bool {
	switch st {
	case SignatureTypeParticipant, SignatureTypeRepresentative, SignatureTypeTrainer,
		SignatureTypeCompanySeal, SignatureTypeOrganizationSeal:
		return true
	}

	return false
}

// Global types are training-level or installation-level singletons; userId is
// never part of their lookup key.
func (st SignatureType) IsGlobal() bool {
	return st == SignatureTypeTrainer || st == SignatureTypeOrganizationSeal
}

func (st SignatureType) IsSeal() bool {
	return st == SignatureTypeCompanySeal || st == SignatureTypeOrganizationSeal
}

// Title returns the canonical human-readable label stored on legacy document
// rows. The legacy lookup path matches on this string, so a given type must
// always map to the same title.
func (st SignatureType) Title() string {
	switch st {
	case SignatureTypeParticipant:
		return "Signature du participant"
	case SignatureTypeRepresentative:
		return "Signature du représentant"
	case SignatureTypeTrainer:
		return "Signature du formateur"
	case SignatureTypeCompanySeal:
		return "Cachet de l'entreprise"
	case SignatureTypeOrganizationSeal:
		return "Cachet de l'organisme de formation"
	}

	return ""
}

func (dt DocumentType) Valid() bool {
	switch dt {
	case DocumentTypeConvention, DocumentTypeAttestation, DocumentTypeEmargement:
		return true
	}

	return false
}

// LegacyCode is the on-disk type code used by the legacy documents table.
func (dt DocumentType) LegacyCode() string {
	switch dt {
	case DocumentTypeConvention:
		return "convention_formation"
	case DocumentTypeAttestation:
		return "attestation_fin"
	case DocumentTypeEmargement:
		return "feuille_emargement"
	}

	return string(dt)
}

const (
	// How long a resolved URL stays fresh in the in-memory cache before a
	// re-resolution is forced.
	SIGNATURE_CACHE_VALIDITY = 30 * time.Second

	// Minimum interval between retries of an errored entry. Organization
	// seals propagate slowly through the storage CDN right after upload and
	// are retried faster.
	RETRY_MIN_INTERVAL      = 3 * time.Second
	SEAL_RETRY_MIN_INTERVAL = 1 * time.Second

	// Source changes arriving faster than this are ignored by the image
	// loader to avoid flicker from redundant upstream updates.
	DEBOUNCE_INTERVAL      = 400 * time.Millisecond
	SEAL_DEBOUNCE_INTERVAL = 100 * time.Millisecond

	MAX_LOAD_RETRIES = 3
)

const (
	METADATA_COMPANY_ID            = "companyId"
	METADATA_SHARED_FROM           = "sharedFrom"
	METADATA_ORIGINAL_SIGNATURE_ID = "originalSignatureId"
)
