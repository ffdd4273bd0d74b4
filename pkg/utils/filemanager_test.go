package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *FileManager {
	t.Helper()
	root := t.TempDir()
	fm := NewFileManager(
		filepath.Join(root, "in"),
		filepath.Join(root, "out"),
		filepath.Join(root, "in_archive"),
		filepath.Join(root, "out_archive"),
		filepath.Join(root, "logs"),
	)
	require.NoError(t, fm.EnsureDirectories())
	return fm
}

func touch(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscoverInputFiles(t *testing.T) {
	fm := newTestManager(t)

	touch(t, filepath.Join(fm.InputDir, "b.XLSX"), "x")
	touch(t, filepath.Join(fm.InputDir, "a.csv"), "x")
	touch(t, filepath.Join(fm.InputDir, "c.xls"), "x")
	touch(t, filepath.Join(fm.InputDir, "notes.txt"), "x")
	touch(t, filepath.Join(fm.InputDir, "~$b.xlsx"), "x")
	touch(t, filepath.Join(fm.InputDir, ".hidden.csv"), "x")
	require.NoError(t, os.Mkdir(filepath.Join(fm.InputDir, "sub.csv"), 0o755))

	files, err := fm.DiscoverInputFiles()
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.Equal(t, []string{"a.csv", "b.XLSX", "c.xls"}, names)

	files, err = fm.DiscoverInputFiles(".csv")
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestDiscoverInputFilesMissingDir(t *testing.T) {
	fm := NewFileManager(filepath.Join(t.TempDir(), "absent"), "", "", "", "")
	_, err := fm.DiscoverInputFiles()
	assert.Error(t, err)
}

func TestArchiveInputFile(t *testing.T) {
	fm := newTestManager(t)

	src := filepath.Join(fm.InputDir, "facta.xlsx")
	touch(t, src, "first")

	archived, err := fm.ArchiveInputFile(src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fm.InputArchiveDir, "facta.xlsx"), archived)
	assert.False(t, FileExists(src))

	// The same export name arrives again.
	touch(t, src, "second")
	again, err := fm.ArchiveInputFile(src)
	require.NoError(t, err)
	assert.NotEqual(t, archived, again)
	assert.True(t, strings.HasPrefix(filepath.Base(again), "facta_"))

	data, err := os.ReadFile(archived)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestArchiveDisabled(t *testing.T) {
	fm := newTestManager(t)
	fm.ArchiveOnSuccess = false

	src := filepath.Join(fm.InputDir, "pan.csv")
	touch(t, src, "x")

	got, err := fm.ArchiveInputFile(src)
	require.NoError(t, err)
	assert.Equal(t, src, got)
	assert.True(t, FileExists(src))
}

func TestArchiveOutputFileCopies(t *testing.T) {
	fm := newTestManager(t)

	out := filepath.Join(fm.OutputDir, "WORKBANKPAN15052024.xlsx")
	touch(t, out, "data")

	archived, err := fm.ArchiveOutputFile(out)
	require.NoError(t, err)
	assert.True(t, FileExists(out))
	assert.True(t, FileExists(archived))
}

func TestArchiveTimestampSubdirs(t *testing.T) {
	fm := newTestManager(t)
	fm.UseTimestampSubdirs = true

	src := filepath.Join(fm.InputDir, "x.csv")
	touch(t, src, "x")

	archived, err := fm.ArchiveInputFile(src)
	require.NoError(t, err)

	rel, err := filepath.Rel(fm.InputArchiveDir, archived)
	require.NoError(t, err)
	assert.Len(t, strings.Split(rel, string(filepath.Separator)), 4)
}

func TestGenerateOutputFileName(t *testing.T) {
	now := time.Date(2024, time.May, 15, 9, 30, 0, 0, time.UTC)

	got := GenerateOutputFileName("WORKBANK{bank}{date}.{ext}", now, map[string]string{
		"bank": "BRB - INCONTA",
		"ext":  "xlsx",
	})
	assert.Equal(t, "WORKBANKBRB - INCONTA15052024.xlsx", got)

	got = GenerateOutputFileName("{system}_{timestamp}", now, map[string]string{
		"system": "PRATA DIGITAL",
		"ext":    "csv",
	})
	assert.Equal(t, "PRATA DIGITAL_20240515_093000.csv", got)

	got = GenerateOutputFileName("{bank}-{uuid}.json", now, map[string]string{"bank": "A/B", "ext": "json"})
	assert.True(t, strings.HasPrefix(got, "A_B-"))
	assert.True(t, strings.HasSuffix(got, ".json"))
	assert.Len(t, got, len("A_B-")+36+len(".json"))
}

func TestCreateUnique(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "WORKBANKPAN15052024.xlsx")

	f, got, err := CreateUnique(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, path, got)

	f, got, err = CreateUnique(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, filepath.Join(dir, "WORKBANKPAN15052024_2.xlsx"), got)

	f, got, err = CreateUnique(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, filepath.Join(dir, "WORKBANKPAN15052024_3.xlsx"), got)

	_, _, err = CreateUnique(filepath.Join(dir, "absent", "x.csv"))
	assert.Error(t, err)
}

func TestWriteErrorLog(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteErrorLog(nil, dir)
	require.NoError(t, err)
	assert.Empty(t, path)

	path, err = WriteErrorLog([]ErrorLogEntry{{
		Timestamp:    time.Now(),
		FileName:     "quali.xlsx",
		System:       "QUALIBANKING",
		ErrorType:    "processing",
		ErrorMessage: "Unknown system: X",
	}}, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total Errors: 1")
	assert.Contains(t, string(data), "System:     QUALIBANKING")
	assert.Contains(t, string(data), "Unknown system: X")
}

func TestWriteSummaryLog(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, time.May, 15, 9, 0, 0, 0, time.UTC)

	path, err := WriteSummaryLog(ProcessingSummary{
		RunID:           "run-1",
		StartTime:       start,
		EndTime:         start.Add(2 * time.Second),
		TotalFiles:      2,
		SuccessfulFiles: 1,
		FailedFiles:     1,
		TotalRecords:    10,
		ProcessedFiles:  []ProcessedFileInfo{{InputFile: "a.xlsx", System: "PAN", Records: 10}},
		FailedFilesList: []FailedFileInfo{{InputFile: "b.xlsx", ErrorMessage: "boom"}},
	}, dir)
	require.NoError(t, err)
	assert.Equal(t, "processing_summary_20240515_090002.txt", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "Run ID:         run-1")
	assert.Contains(t, text, "Duration:       2s")
	assert.Contains(t, text, "Input:        a.xlsx")
	assert.Contains(t, text, "Error:  boom")
}
