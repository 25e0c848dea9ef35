package acmi

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"acmi_stats/internal/models"
)

const (
	fileTypeHeader = "FileType=text/acmi/tacview"
	globalObjectID = "0"

	// Debriefing and briefing properties can make single lines large.
	maxLineBytes = 1024 * 1024
)

// Parse reads an ACMI text stream and folds every object's updates into its
// final lifecycle state. The input must start with the ACMI file type header;
// a version line, when present, must be a 2.x version.
func Parse(r io.Reader) (*Session, error) {
	p := &parser{objects: make(map[string]*models.ObjectRecord)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for {
		line, ok, err := p.nextLine(scanner)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if err := p.handleLine(line); err != nil {
			return nil, err
		}
	}
	if !p.sawHeader {
		return nil, errors.New("empty recording")
	}

	sess := &Session{Mission: p.mission}
	sess.Mission.TimeFrames = p.frames
	sess.Mission.Objects = len(p.order)
	sess.Records = make([]models.ObjectRecord, 0, len(p.order))
	for _, id := range p.order {
		sess.Records = append(sess.Records, *p.objects[id])
	}
	return sess, nil
}

type parser struct {
	objects   map[string]*models.ObjectRecord
	order     []string
	mission   models.MissionInfo
	frames    int
	line      int
	sawHeader bool
}

// nextLine returns the next logical line, joining physical lines when one
// ends with an unescaped backslash.
func (p *parser) nextLine(scanner *bufio.Scanner) (string, bool, error) {
	if !scanner.Scan() {
		return "", false, scanner.Err()
	}
	p.line++
	line := scanner.Text()
	for hasContinuation(line) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", false, err
			}
			return "", false, fmt.Errorf("line %d: unterminated line continuation", p.line)
		}
		p.line++
		line = strings.TrimSuffix(line, `\`) + "\n" + scanner.Text()
	}
	return line, true, nil
}

func (p *parser) handleLine(line string) error {
	if !p.sawHeader {
		if line != fileTypeHeader {
			return fmt.Errorf("not an ACMI text recording (want leading %q)", fileTypeHeader)
		}
		p.sawHeader = true
		return nil
	}

	switch {
	case line == "" || strings.HasPrefix(line, "//"):
		return nil
	case strings.HasPrefix(line, "FileVersion="):
		version := strings.TrimPrefix(line, "FileVersion=")
		if !strings.HasPrefix(version, "2.") {
			return fmt.Errorf("unsupported ACMI version %q", version)
		}
		return nil
	case strings.HasPrefix(line, "#"):
		return p.handleFrame(line)
	case strings.HasPrefix(line, "-"):
		p.handleRemoval(strings.TrimPrefix(line, "-"))
		return nil
	default:
		return p.handleObject(line)
	}
}

func (p *parser) handleFrame(line string) error {
	if _, err := strconv.ParseFloat(line[1:], 64); err != nil {
		return fmt.Errorf("line %d: malformed frame marker %q", p.line, line)
	}
	p.frames++
	return nil
}

func (p *parser) handleRemoval(id string) {
	rec, ok := p.objects[id]
	if !ok {
		slog.Debug("removal of unknown object", "id", id, "line", p.line)
		return
	}
	if !rec.Alive {
		slog.Debug("object removed twice", "id", id, "line", p.line)
		return
	}
	rec.Alive = false
}

func (p *parser) handleObject(line string) error {
	fields := splitFields(line)
	id := fields[0]
	if id == "" {
		return fmt.Errorf("line %d: missing object id", p.line)
	}
	if id == globalObjectID {
		return p.handleGlobals(fields[1:])
	}

	rec := p.objects[id]
	if rec == nil {
		rec = &models.ObjectRecord{ID: id, Alive: true}
		p.objects[id] = rec
		p.order = append(p.order, id)
	} else if !rec.Alive {
		slog.Debug("update after removal", "id", id, "line", p.line)
	}

	for _, field := range fields[1:] {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return fmt.Errorf("line %d: malformed property %q", p.line, field)
		}
		applyProperty(rec, key, value)
	}
	return nil
}

func (p *parser) handleGlobals(fields []string) error {
	for _, field := range fields {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			return fmt.Errorf("line %d: malformed property %q", p.line, field)
		}
		switch key {
		case "Title":
			p.mission.Title = value
		case "ReferenceTime":
			p.mission.ReferenceTime = value
		case "RecordingTime":
			p.mission.RecordingTime = value
		case "Author":
			p.mission.Author = value
		case "DataSource":
			p.mission.DataSource = value
		case "DataRecorder":
			p.mission.DataRecorder = value
		}
	}
	return nil
}

func applyProperty(rec *models.ObjectRecord, key, value string) {
	switch key {
	case "Type":
		rec.Kind = models.KindFromTags(value)
	case "Name":
		rec.Name = value
	case "Pilot":
		rec.Pilot = value
	case "Coalition":
		rec.Coalition = value
	case "Country":
		rec.Country = value
	case "Group":
		rec.Group = value
	case "Parent":
		rec.ParentID = value
	}
}

// splitFields splits an object line on commas, honoring the \, escape. Other
// backslash sequences pass through unchanged.
func splitFields(line string) []string {
	fields := make([]string, 0, 8)
	var b strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			if r != ',' {
				b.WriteRune('\\')
			}
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ',':
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	if escaped {
		b.WriteRune('\\')
	}
	return append(fields, b.String())
}

// hasContinuation reports whether a physical line ends with an unescaped
// backslash, meaning the next physical line belongs to the same statement.
func hasContinuation(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}
