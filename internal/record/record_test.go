package record

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goremoteid/pkg/remoteid"
)

type bufferSource struct {
	buf bytes.Buffer
	err error
}

func (s *bufferSource) GetWriter() (io.Writer, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &s.buf, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func fixedClock() time.Time {
	return time.Date(2024, time.July, 4, 14, 5, 54, 120_000_000, time.UTC)
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name  string
		msg   remoteid.Message
		check func(t *testing.T, fields []string)
	}{
		{
			name: "basic id",
			msg: &remoteid.BasicID{
				IDType: remoteid.IDTypeSerialNumber,
				UAType: remoteid.UATypeHelicopterOrMultirotor,
				UASID:  remoteid.IDFromString("1596F1234567890"),
			},
			check: func(t *testing.T, fields []string) {
				assert.Equal(t, "BasicID", fields[ColType])
				assert.Equal(t, "1596F1234567890", fields[ColIdent])
				assert.Equal(t, "serial_number/helicopter_or_multirotor", fields[ColStatus])
				assert.Empty(t, fields[ColLatitude])
			},
		},
		{
			name: "location",
			msg: &remoteid.Location{
				Status:           remoteid.StatusAirborne,
				TrackDirection:   270,
				Speed:            12.5,
				VerticalSpeed:    -1.5,
				Latitude:         50.0828829,
				Longitude:        8.5350378,
				GeodeticAltitude: 180,
				Height:           60,
				Timestamp:        1234.5,
			},
			check: func(t *testing.T, fields []string) {
				assert.Equal(t, "Location", fields[ColType])
				assert.Equal(t, "airborne", fields[ColStatus])
				assert.True(t, strings.HasPrefix(fields[ColLatitude], "50.08288"))
				assert.True(t, strings.HasPrefix(fields[ColLongitude], "8.53503"))
				assert.Equal(t, "180.0", fields[ColGeodeticAltitude])
				assert.Equal(t, "60.0", fields[ColHeight])
				assert.Equal(t, "12.50", fields[ColSpeed])
				assert.Equal(t, "270", fields[ColTrack])
				assert.Equal(t, "-1.5", fields[ColVerticalSpeed])
				assert.Equal(t, "1234.5", fields[ColTimestamp])
			},
		},
		{
			name: "self id with comma",
			msg:  &remoteid.SelfID{Description: "survey, north field"},
			check: func(t *testing.T, fields []string) {
				assert.Equal(t, "survey  north field", fields[ColIdent])
				assert.Equal(t, "text", fields[ColStatus])
			},
		},
		{
			name: "system",
			msg: &remoteid.System{
				OperatorLatitude:  50.08,
				OperatorLongitude: 8.53,
				Classification: remoteid.UAClassification{
					Category: remoteid.CategoryOpen,
					Class:    remoteid.Class1,
				},
				Timestamp: time.Date(2024, time.July, 4, 14, 5, 54, 0, time.UTC),
			},
			check: func(t *testing.T, fields []string) {
				assert.Equal(t, "System", fields[ColType])
				assert.Equal(t, "open/class_1", fields[ColStatus])
				assert.Equal(t, "2024-07-04T14:05:54Z", fields[ColTimestamp])
			},
		},
		{
			name: "system without timestamp",
			msg:  &remoteid.System{},
			check: func(t *testing.T, fields []string) {
				assert.Empty(t, fields[ColTimestamp])
			},
		},
		{
			name: "auth page 1",
			msg:  &remoteid.Auth{AuthType: remoteid.AuthMessageSetSignature, Page: 1, LastPageIndex: 2},
			check: func(t *testing.T, fields []string) {
				assert.Equal(t, "message_set_signature:1/2", fields[ColIdent])
				assert.Empty(t, fields[ColTimestamp])
			},
		},
		{
			name: "operator id",
			msg:  &remoteid.OperatorID{OperatorID: remoteid.IDFromString("FIN87astrdge12k8")},
			check: func(t *testing.T, fields []string) {
				assert.Equal(t, "OperatorID", fields[ColType])
				assert.Equal(t, "FIN87astrdge12k8", fields[ColIdent])
				assert.Equal(t, "operator_id", fields[ColStatus])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Convert(tt.msg)
			rec.Source = "hci0"
			rec.Counter = 7
			rec.Logged = fixedClock()

			fields := strings.Split(rec.Format(), ",")
			require.Len(t, fields, numColumns)
			assert.Equal(t, RecordTag, fields[ColTag])
			assert.Equal(t, "hci0", fields[ColSource])
			assert.Equal(t, "7", fields[ColCounter])
			assert.Equal(t, "2024/07/04", fields[ColDateLogged])
			assert.Equal(t, "14:05:54.120", fields[ColTimeLogged])
			tt.check(t, fields)
		})
	}
}

func TestWriter_WriteFrame(t *testing.T) {
	files := &bufferSource{}
	var echo bytes.Buffer

	w := NewWriter(files, &echo, testLogger())
	w.now = fixedClock

	frame := remoteid.Frame{
		Counter: 3,
		Message: &remoteid.MessagePack{Messages: []remoteid.Message{
			&remoteid.BasicID{UASID: remoteid.IDFromString("ABC")},
			&remoteid.OperatorID{OperatorID: remoteid.IDFromString("OP1")},
		}},
	}
	require.NoError(t, w.WriteFrame("hci0", frame))

	lines := strings.Split(strings.TrimSuffix(files.buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "RID,BasicID,hci0,3,"))
	assert.True(t, strings.HasPrefix(lines[1], "RID,OperatorID,hci0,3,"))
	assert.Equal(t, files.buf.String(), echo.String())
}

func TestWriter_Errors(t *testing.T) {
	t.Run("no message", func(t *testing.T) {
		w := NewWriter(nil, nil, testLogger())
		assert.Error(t, w.WriteFrame("", remoteid.Frame{}))
	})

	t.Run("writer unavailable", func(t *testing.T) {
		sentinel := errors.New("closed")
		w := NewWriter(&bufferSource{err: sentinel}, nil, testLogger())
		err := w.WriteFrame("", remoteid.Frame{Message: &remoteid.SelfID{}})
		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("no outputs", func(t *testing.T) {
		w := NewWriter(nil, nil, testLogger())
		assert.NoError(t, w.WriteFrame("", remoteid.Frame{Message: &remoteid.SelfID{}}))
	})
}

func TestFlatten(t *testing.T) {
	single := &remoteid.SelfID{}
	assert.Equal(t, []remoteid.Message{single}, Flatten(single))

	pack := &remoteid.MessagePack{Messages: []remoteid.Message{single, single}}
	assert.Len(t, Flatten(pack), 2)
}
