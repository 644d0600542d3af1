package gaucho

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/daanasma/Cuchillo-de-Gaucho/log"
	"github.com/daanasma/Cuchillo-de-Gaucho/utils"

	"go.uber.org/zap"
)

// Column types accepted in CSVOptions.Types.
const (
	TypeString = "string"
	TypeInt    = "int"
	TypeFloat  = "float"
)

// CSVOptions steers ReadCSV. Delimiter defaults to a comma; Charset may
// name a legacy encoding (latin1, windows-1252, iso-8859-1) to transcode
// from; Types maps column names to a forced parse type, other columns
// stay strings.
type CSVOptions struct {
	Delimiter rune
	Charset   string
	Types     map[string]string
}

// ReadCSV loads a delimited text file into an attribute-only frame. The
// values "NA" and "" become nil, mirroring how the surrounding pipelines
// mark missing data.
func (g *GdalToolbox) ReadCSV(path string, opt CSVOptions) (ret *Frame, err error) {
	if opt.Delimiter == 0 {
		opt.Delimiter = ','
	}
	log.Info(g.logTag+"reading csv file", zap.String("path", path))
	file, err := os.Open(path)
	if err != nil {
		log.Error(g.logTag+"failed to open csv file", zap.String("path", path), zap.Error(err))
		return
	}
	defer file.Close()

	reader := csv.NewReader(utils.CharsetReader(file, opt.Charset))
	reader.Comma = opt.Delimiter
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		log.Error(g.logTag+"failed to read csv file", zap.String("path", path), zap.Error(err))
		return
	}
	if len(records) == 0 {
		ret = NewFrame(nil, 0)
		return
	}
	header := records[0]
	ret = NewFrame(header, 0)
	ret.Features = make([]Feature, 0, len(records)-1)
	for _, row := range records[1:] {
		attrs := make(map[string]any, len(header))
		for i, c := range header {
			if i >= len(row) {
				attrs[c] = nil
				continue
			}
			attrs[c] = parseCSVValue(row[i], opt.Types[c])
		}
		ret.Features = append(ret.Features, Feature{Attrs: attrs})
	}
	g.metrics.addRead("csv", ret.Len())
	log.Info(g.logTag+"finished reading csv file", zap.String("path", path), zap.Int("rows", ret.Len()))
	return
}

func parseCSVValue(s, typ string) any {
	if s == "" || s == "NA" {
		return nil
	}
	switch typ {
	case TypeInt:
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v
		}
		return nil
	case TypeFloat:
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
		return nil
	default:
		return s
	}
}
