package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/consentbase/schemasync/pkg/schema"
)

func TestLoadFragmentsFromDirectory(t *testing.T) {
	fragments, err := loadFragments(filepath.Join("testdata", "schema"))
	assert.NoError(t, err)
	assert.Len(t, fragments, 4)

	// Files load in name order, so the plugin contribution comes last
	assert.Equal(t, "core", fragments[0].Source)
	assert.Equal(t, "audit-plugin", fragments[3].Source)
}

func TestLoadedFragmentsAssemble(t *testing.T) {
	fragments, err := loadFragments(filepath.Join("testdata", "schema"))
	assert.NoError(t, err)

	canonical := schema.Assemble(fragments)
	assert.Len(t, canonical, 3)

	record := canonical["consent_record"]
	assert.Equal(t, 2, record.Order)

	// Core fields plus the audit plugin's contributions, in order
	assert.Equal(t, []string{
		"subject_id", "purpose_id", "granted", "granted_at",
		"subject_timezone", "evidence", "channels",
		"revision", "change_log",
	}, record.OrderedFieldNames())

	subjectID := record.Fields["subject_id"]
	if assert.NotNil(t, subjectID.Reference) {
		assert.Equal(t, "subject", subjectID.Reference.Table)
		assert.Equal(t, "id", subjectID.Reference.TargetField())
	}

	grantedAt := record.Fields["granted_at"]
	assert.Equal(t, schema.DefaultComputed, grantedAt.Default.Kind)
	assert.Equal(t, schema.ComputedNow, grantedAt.Default.Computed)

	assert.True(t, record.Fields["revision"].BigInt)
	assert.Equal(t, [][]string{{"subject_id", "purpose_id"}}, record.UniqueConstraints)
}

func TestLoadFragmentsMissingDirectory(t *testing.T) {
	_, err := loadFragments(filepath.Join("testdata", "does-not-exist"))
	assert.Error(t, err)
}
