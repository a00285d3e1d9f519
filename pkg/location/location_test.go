package location

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nmeaLog = `$GPGSA,A,3,04,05,,09,12,,,24,,,,,2.5,1.3,2.1*39
$GPRMC,120000,A,4807.038,N,01131.000,E,022.4,084.4,170326,003.1,W*6A
$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47
$GPRMC,120100,A,4807.100,N,01131.200,E,022.4,084.4,170326,003.1,W*63
$GPRMC,120200,V,4807.200,N,01131.400,E,022.4,084.4,170326,003.1,W*72
$GPRMC,120250,A,4807.250,N,01131.500,E,022.4,084.4,170326,003.1,W*00
garbage line
$GPRMC,120300,A,4807.300,N,01131.600,E,022.4,084.4,170326,003.1,W*67
`

func TestReadTrack_NewestFirst(t *testing.T) {
	// Execute
	head, summary, err := ReadTrack(strings.NewReader(nmeaLog))

	// Assert
	require.NoError(t, err)
	require.NotNil(t, head)
	assert.Equal(t, TrackSummary{Fixes: 3, NoFix: 1, Malformed: 1}, summary)
	assert.Equal(t, 3, head.Len())

	var stamps []uint64
	for _, v := range head.Values() {
		stamps = append(stamps, v.TimeStamp)
	}
	assert.Equal(t, []uint64{1773748980, 1773748860, 1773748800}, stamps)

	oldest := head.Values()[2]
	assert.InDelta(t, 48.1173, oldest.Point.Latitude, 1e-4)
	assert.InDelta(t, 11.516667, oldest.Point.Longitude, 1e-4)
}

func TestReadTrack_PartOfReplayedLog(t *testing.T) {
	head, _, err := ReadTrack(strings.NewReader(nmeaLog))
	require.NoError(t, err)

	part := head.GetPart(1773748800, 1773748900)
	require.NotNil(t, part)
	assert.Equal(t, uint64(1773748860), part.Value().TimeStamp)
	assert.Equal(t, uint64(1773748800), part.Next().Value().TimeStamp)
	assert.Nil(t, part.Next().Next())
}

func TestReadTrack_NoFixes(t *testing.T) {
	head, summary, err := ReadTrack(strings.NewReader("$GPGSA,A,3,04,05,,09,12,,,24,,,,,2.5,1.3,2.1*39\n"))

	assert.NoError(t, err)
	assert.Nil(t, head)
	assert.Zero(t, summary.Fixes)
}

func TestReadFix(t *testing.T) {
	loc, err := readFix(context.Background(), strings.NewReader(nmeaLog))

	require.NoError(t, err)
	assert.InDelta(t, 48.1173, loc.Latitude, 1e-4)
	assert.InDelta(t, 11.516667, loc.Longitude, 1e-4)
	assert.InDelta(t, 0.9, loc.Accuracy, 1e-9)
}

func TestReadFix_NoGGA(t *testing.T) {
	_, err := readFix(context.Background(), strings.NewReader("$GPRMC,120000,A,4807.038,N,01131.000,E,022.4,084.4,170326,003.1,W*6A\n"))

	assert.True(t, errors.Is(err, ErrNoFix))
}

func TestReadFix_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := readFix(ctx, strings.NewReader(nmeaLog))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseWiFiAccessPoints(t *testing.T) {
	output := "AA\\:BB\\:CC\\:DD\\:EE\\:FF:70\n00\\:14\\:22\\:01\\:23\\:45:35\nbad-line\nZZ\\:BB\\:CC\\:DD\\:EE\\:FF:10\n"

	aps, err := parseWiFiAccessPoints(output)

	require.NoError(t, err)
	require.Len(t, aps, 2)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", aps[0].MACAddress)
	assert.Equal(t, float64(70), aps[0].SignalStrength)
	assert.Equal(t, "00:14:22:01:23:45", aps[1].MACAddress)
}

func TestParseCellTowers(t *testing.T) {
	output := "modem.3gpp.mcc : 310\nmodem.3gpp.mnc : 260\nmodem.3gpp.lac : 1A2B\nmodem.3gpp.cid : FF\n"

	towers, err := parseCellTowers(output)

	require.NoError(t, err)
	require.Len(t, towers, 1)
	assert.Equal(t, 310, towers[0].MobileCountryCode)
	assert.Equal(t, 260, towers[0].MobileNetworkCode)
	assert.Equal(t, 0x1A2B, towers[0].LocationAreaCode)
	assert.Equal(t, 0xFF, towers[0].CellID)

	_, err = parseCellTowers("modem.3gpp.lac : 1A2B\n")
	assert.Error(t, err)
}

func TestLocation_Point(t *testing.T) {
	p := Location{Latitude: 1.5, Longitude: -2.5, Accuracy: 3}.Point()
	assert.Equal(t, 1.5, p.Latitude)
	assert.Equal(t, -2.5, p.Longitude)
}
