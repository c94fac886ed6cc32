package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/zx-cli/internal/core/domain"
)

var fixedBuildTime = time.Date(2024, 3, 9, 14, 5, 7, 123_000_000, time.FixedZone("CET", 3600))

func testFields() ArchiveFields {
	return ArchiveFields{
		Patient:               domain.PatientIdentity{Name: "DOE^JOHN <jr> & co", Source: domain.NameFromString},
		StudyDate:             domain.StudyDate{Value: "20230101"},
		StudyInstanceUID:      testStudyUID,
		DisplaySetInstanceUID: testDisplaySet,
	}
}

func readZip(t *testing.T, payload []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)

	out := make(map[string][]byte)
	for _, f := range zr.File {
		assert.Equal(t, zip.Deflate, f.Method)
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		out[f.Name] = data
	}
	return out
}

func TestArchiveBuilder_Build(t *testing.T) {
	builder := NewArchiveBuilder(func() time.Time { return fixedBuildTime })
	img := &domain.CapturedImage{Data: []byte{0xFF, 0xD8, 0x00, 0x01, 0xFF, 0xD9}, MimeType: domain.MimeJPEG, Quality: 0.9}

	manifest, err := builder.Build(context.Background(), img, testFields())
	require.NoError(t, err)

	require.Len(t, manifest.Entries, 2)
	assert.Equal(t, domain.ImageEntryName, manifest.Entries[0].Name)
	assert.Equal(t, domain.MetadataEntryName, manifest.Entries[1].Name)
	assert.Equal(t, img.Data, manifest.Entries[0].Data)

	// the packed archive holds the same entries in the same order
	zr, err := zip.NewReader(bytes.NewReader(manifest.Payload), int64(len(manifest.Payload)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, domain.ImageEntryName, zr.File[0].Name)
	assert.Equal(t, domain.MetadataEntryName, zr.File[1].Name)

	files := readZip(t, manifest.Payload)
	assert.Equal(t, img.Data, files[domain.ImageEntryName])
	assert.Equal(t, manifest.Entries[1].Data, files[domain.MetadataEntryName])
}

func TestArchiveBuilder_MetadataRoundTrip(t *testing.T) {
	builder := NewArchiveBuilder(func() time.Time { return fixedBuildTime })
	fields := testFields()

	manifest, err := builder.Build(context.Background(), &domain.CapturedImage{Data: []byte{1}}, fields)
	require.NoError(t, err)

	var meta domain.ArchiveMetadata
	require.NoError(t, json.Unmarshal(manifest.Entries[1].Data, &meta))
	assert.Equal(t, fields.Patient.Name, meta.PatientName)
	assert.Equal(t, fields.StudyDate.Value, meta.StudyDate)
	assert.Equal(t, fields.StudyInstanceUID, meta.StudyInstanceUID)
	assert.Equal(t, fields.DisplaySetInstanceUID, meta.DisplaySetInstanceUID)
	assert.Equal(t, "2024-03-09T13:05:07.123Z", meta.ExportTimestamp)
}

func TestArchiveBuilder_MetadataLayout(t *testing.T) {
	builder := NewArchiveBuilder(func() time.Time { return fixedBuildTime })

	manifest, err := builder.Build(context.Background(), &domain.CapturedImage{Data: []byte{1}}, testFields())
	require.NoError(t, err)

	expected := `{
  "PatientName": "DOE^JOHN <jr> & co",
  "StudyDate": "20230101",
  "StudyInstanceUID": "` + testStudyUID + `",
  "DisplaySetInstanceUID": "` + testDisplaySet + `",
  "ExportTimestamp": "2024-03-09T13:05:07.123Z"
}`
	assert.Equal(t, expected, string(manifest.Entries[1].Data))
}

func TestArchiveBuilder_TimestampTakenAtBuild(t *testing.T) {
	calls := 0
	builder := NewArchiveBuilder(func() time.Time {
		calls++
		return fixedBuildTime.Add(time.Duration(calls) * time.Second)
	})

	first, err := builder.Build(context.Background(), &domain.CapturedImage{Data: []byte{1}}, testFields())
	require.NoError(t, err)
	second, err := builder.Build(context.Background(), &domain.CapturedImage{Data: []byte{1}}, testFields())
	require.NoError(t, err)

	assert.NotEqual(t, first.Entries[1].Data, second.Entries[1].Data)
}

func TestArchiveBuilder_Failures(t *testing.T) {
	builder := NewArchiveBuilder(nil)

	_, err := builder.Build(context.Background(), nil, testFields())
	assert.Equal(t, domain.ConditionArchiveGenerationFailed, domain.ConditionOf(err))

	builder.pack = func([]domain.ArchiveEntry, time.Time) ([]byte, error) {
		return nil, errors.New("disk full")
	}
	manifest, err := builder.Build(context.Background(), &domain.CapturedImage{Data: []byte{1}}, testFields())
	assert.Nil(t, manifest)
	assert.Equal(t, domain.ConditionArchiveGenerationFailed, domain.ConditionOf(err))
}
