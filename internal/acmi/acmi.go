// Package acmi reads Tacview ACMI 2.2 text recordings, either plain or inside
// the usual zip container, and reduces them to the final lifecycle state of
// every recorded object.
package acmi

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dimchansky/utfbom"

	"acmi_stats/internal/models"
)

// zip container magic; .acmi files are sniffed, not trusted by extension.
var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// IngestionError wraps any failure to read or parse a recording file.
type IngestionError struct {
	Path string
	Err  error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Path, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// Session is the fully materialized content of one recording: the final state
// of every object plus the recording's global properties.
type Session struct {
	Path    string
	Mission models.MissionInfo
	Records []models.ObjectRecord // final object states, first-seen order
}

// AliveAircraft returns the aircraft records still alive at session end.
func (s *Session) AliveAircraft() []models.ObjectRecord {
	return s.selectRecords(models.KindAircraft, true)
}

// RemovedAircraft returns the aircraft records removed during the session.
func (s *Session) RemovedAircraft() []models.ObjectRecord {
	return s.selectRecords(models.KindAircraft, false)
}

// RemovedMunitions returns the munition records removed during the session.
// Launch counting works from these: a munition that is gone by session end
// has completed its flight, while one still alive is in the air or unused.
func (s *Session) RemovedMunitions() []models.ObjectRecord {
	return s.selectRecords(models.KindMunition, false)
}

func (s *Session) selectRecords(kind models.ObjectKind, alive bool) []models.ObjectRecord {
	var out []models.ObjectRecord
	for _, rec := range s.Records {
		if rec.Kind == kind && rec.Alive == alive {
			out = append(out, rec)
		}
	}
	return out
}

// Load reads the recording at path. Zip containers are detected by magic
// bytes and must hold the recording as their first entry; a UTF-8 byte order
// mark in the text stream is skipped either way.
func Load(path string) (*Session, error) {
	zipped, err := isZipFile(path)
	if err != nil {
		return nil, &IngestionError{Path: path, Err: err}
	}

	var sess *Session
	if zipped {
		sess, err = loadZip(path)
	} else {
		sess, err = loadPlain(path)
	}
	if err != nil {
		return nil, &IngestionError{Path: path, Err: err}
	}
	sess.Path = path
	return sess, nil
}

func loadPlain(path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(utfbom.SkipOnly(f))
}

func loadZip(path string) (*Session, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, entry := range r.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive entry %s: %w", entry.Name, err)
		}
		defer rc.Close()
		return Parse(utfbom.SkipOnly(rc))
	}
	return nil, errors.New("archive contains no recording")
}

func isZipFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	magic := make([]byte, len(zipMagic))
	if _, err := io.ReadFull(f, magic); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil // too short to be a zip, let the parser complain
		}
		return false, err
	}
	return bytes.Equal(magic, zipMagic), nil
}
