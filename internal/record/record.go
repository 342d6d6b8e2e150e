// Package record writes decoded Remote ID messages as comma separated
// lines, one line per message.
package record

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"goremoteid/pkg/remoteid"
)

// RecordTag opens every line.
const RecordTag = "RID"

// Column positions within a line.
const (
	ColTag = iota
	ColType
	ColSource
	ColCounter
	ColDateLogged
	ColTimeLogged
	ColIdent
	ColStatus
	ColLatitude
	ColLongitude
	ColGeodeticAltitude
	ColPressureAltitude
	ColHeight
	ColSpeed
	ColTrack
	ColVerticalSpeed
	ColTimestamp
	numColumns
)

// Record is one line before formatting. Empty fields are left blank.
type Record struct {
	Type             remoteid.MessageType
	Source           string
	Counter          uint8
	Logged           time.Time
	Ident            string
	Status           string
	Latitude         string
	Longitude        string
	GeodeticAltitude string
	PressureAltitude string
	Height           string
	Speed            string
	Track            string
	VerticalSpeed    string
	Timestamp        string
}

// WriterSource hands out the current output file. *logging.LogRotator
// satisfies it.
type WriterSource interface {
	GetWriter() (io.Writer, error)
}

// Writer formats frames and writes them to a rotating file and, when
// set, a second stream such as stdout.
type Writer struct {
	files  WriterSource
	echo   io.Writer
	logger *logrus.Logger
	now    func() time.Time
	mutex  sync.Mutex
}

// NewWriter returns a Writer. Either output may be nil.
func NewWriter(files WriterSource, echo io.Writer, logger *logrus.Logger) *Writer {
	return &Writer{
		files:  files,
		echo:   echo,
		logger: logger,
		now:    time.Now,
	}
}

// WriteFrame writes one line per message in the frame. Packed messages
// each get their own line carrying the frame counter.
func (w *Writer) WriteFrame(source string, frame remoteid.Frame) error {
	if frame.Message == nil {
		return fmt.Errorf("frame has no message")
	}

	logged := w.now()
	var lines []string
	for _, msg := range Flatten(frame.Message) {
		rec := Convert(msg)
		rec.Source = source
		rec.Counter = frame.Counter
		rec.Logged = logged
		lines = append(lines, rec.Format())
	}

	return w.write(lines)
}

func (w *Writer) write(lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	data := []byte(strings.Join(lines, "\n") + "\n")

	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.files != nil {
		out, err := w.files.GetWriter()
		if err != nil {
			return fmt.Errorf("failed to get record writer: %w", err)
		}
		if _, err := out.Write(data); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	if w.echo != nil {
		if _, err := w.echo.Write(data); err != nil {
			return fmt.Errorf("failed to echo record: %w", err)
		}
	}

	w.logger.WithField("lines", len(lines)).Debug("Wrote records")
	return nil
}

// Flatten returns the members of a message pack, or msg itself.
func Flatten(msg remoteid.Message) []remoteid.Message {
	if p, ok := msg.(*remoteid.MessagePack); ok && p != nil {
		return p.Messages
	}
	return []remoteid.Message{msg}
}

// Convert fills the columns that apply to msg's type.
func Convert(msg remoteid.Message) Record {
	rec := Record{Type: msg.Type()}

	switch m := msg.(type) {
	case *remoteid.BasicID:
		rec.Ident = m.UASID.String()
		rec.Status = m.IDType.String() + "/" + m.UAType.String()

	case *remoteid.Location:
		rec.Status = m.Status.String()
		rec.Latitude = formatCoordinate(m.Latitude)
		rec.Longitude = formatCoordinate(m.Longitude)
		rec.GeodeticAltitude = formatFloat(m.GeodeticAltitude, 1)
		rec.PressureAltitude = formatFloat(m.PressureAltitude, 1)
		rec.Height = formatFloat(m.Height, 1)
		rec.Speed = formatFloat(m.Speed, 2)
		rec.Track = formatFloat(m.TrackDirection, 0)
		rec.VerticalSpeed = formatFloat(m.VerticalSpeed, 1)
		rec.Timestamp = formatFloat(m.Timestamp, 1)

	case *remoteid.Auth:
		rec.Ident = fmt.Sprintf("%s:%d/%d", m.AuthType, m.Page, m.LastPageIndex)
		if m.Page == 0 && !m.Timestamp.IsZero() {
			rec.Timestamp = m.Timestamp.UTC().Format(time.RFC3339)
		}

	case *remoteid.SelfID:
		rec.Ident = m.Description
		rec.Status = m.DescriptionType.String()

	case *remoteid.System:
		rec.Status = m.Classification.Category.String() + "/" + m.Classification.Class.String()
		rec.Latitude = formatCoordinate(m.OperatorLatitude)
		rec.Longitude = formatCoordinate(m.OperatorLongitude)
		rec.GeodeticAltitude = formatFloat(m.OperatorAltitude, 1)
		if !m.Timestamp.IsZero() {
			rec.Timestamp = m.Timestamp.UTC().Format(time.RFC3339)
		}

	case *remoteid.OperatorID:
		rec.Ident = m.OperatorID.String()
		rec.Status = m.IDType.String()
	}

	return rec
}

// Format joins the record into a line without the trailing newline.
func (r Record) Format() string {
	fields := make([]string, numColumns)
	fields[ColTag] = RecordTag
	fields[ColType] = r.Type.String()
	fields[ColSource] = r.Source
	fields[ColCounter] = strconv.Itoa(int(r.Counter))
	fields[ColDateLogged] = r.Logged.Format("2006/01/02")
	fields[ColTimeLogged] = r.Logged.Format("15:04:05.000")
	fields[ColIdent] = sanitize(r.Ident)
	fields[ColStatus] = r.Status
	fields[ColLatitude] = r.Latitude
	fields[ColLongitude] = r.Longitude
	fields[ColGeodeticAltitude] = r.GeodeticAltitude
	fields[ColPressureAltitude] = r.PressureAltitude
	fields[ColHeight] = r.Height
	fields[ColSpeed] = r.Speed
	fields[ColTrack] = r.Track
	fields[ColVerticalSpeed] = r.VerticalSpeed
	fields[ColTimestamp] = r.Timestamp

	return strings.Join(fields, ",")
}

func formatCoordinate(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 6, 32)
}

func formatFloat(v float32, prec int) string {
	return strconv.FormatFloat(float64(v), 'f', prec, 32)
}

// sanitize keeps free text from breaking the column layout.
func sanitize(s string) string {
	return strings.NewReplacer(",", " ", "\n", " ", "\r", " ").Replace(s)
}
