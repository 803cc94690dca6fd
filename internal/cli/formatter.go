package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

var SupportedOutputFormats = []string{"table", "json", "yaml"}

type OutputFormatter struct {
	header []string
	data   [][]interface{}
	format string
}

func NewOutputFormatter(format string) (*OutputFormatter, error) {
	for _, supportedFormat := range SupportedOutputFormats {
		if supportedFormat == format {
			return &OutputFormatter{
				format: format,
			}, nil
		}
	}
	return nil, fmt.Errorf("output format '%s' is not supported: please choose between '%s'",
		format, strings.Join(SupportedOutputFormats, "', '"))
}

func (of *OutputFormatter) Header(header ...string) error {
	for _, row := range of.data {
		if err := of.headerColumnCheck(len(row), len(header)); err != nil {
			return err
		}
	}
	of.header = header
	return nil
}

func (of *OutputFormatter) AddRow(data ...interface{}) error {
	if of.header != nil {
		if err := of.headerColumnCheck(len(data), len(of.header)); err != nil {
			return err
		}
	}
	of.data = append(of.data, data)
	return nil
}

func (of *OutputFormatter) headerColumnCheck(columnCnt, headerCnt int) error {
	if columnCnt != headerCnt {
		return fmt.Errorf("header count differs with column count: %d != %d", headerCnt, columnCnt)
	}
	return nil
}

func (of *OutputFormatter) Output(writer io.Writer) error {
	switch of.format {
	case "json":
		return of.marshal(writer, func(data interface{}) ([]byte, error) {
			return json.MarshalIndent(data, "", "  ")
		})
	case "yaml":
		return of.marshal(writer, yaml.Marshal)
	default:
		of.tableOutput(writer)
		return nil
	}
}

func (of *OutputFormatter) marshal(writer io.Writer, marshalFct func(interface{}) ([]byte, error)) error {
	data, err := of.serializeableData()
	if err != nil {
		return err
	}
	result, err := marshalFct(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(writer, strings.TrimSuffix(string(result), "\n"))
	return err
}

func (of *OutputFormatter) tableOutput(writer io.Writer) {
	table := tablewriter.NewWriter(writer)
	table.SetHeader(of.header)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	for _, row := range of.data {
		cells := make([]string, len(row))
		for idx, cell := range row {
			cells[idx] = fmt.Sprint(cell)
		}
		table.Append(cells)
	}
	table.Render()
}

//serializeableData uses the lower-cased headers as keys
func (of *OutputFormatter) serializeableData() ([]map[string]interface{}, error) {
	if len(of.header) == 0 {
		return nil, fmt.Errorf("no headers defined: cannot convert data to map")
	}
	data := []map[string]interface{}{}
	for _, dataRow := range of.data {
		dataTuple := make(map[string]interface{})
		for idxCol, hdr := range of.header {
			dataTuple[strings.ToLower(hdr)] = dataRow[idxCol]
		}
		data = append(data, dataTuple)
	}
	return data, nil
}
