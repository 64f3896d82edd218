package results

import (
	"encoding/json"
)

// Row is one normalized result row. Columns lists its keys in output order.
type Row interface {
	Columns() []string
}

// Envelope is the JSON shape every query path returns.
type Envelope struct {
	Results  []Row    `json:"results"`
	RowCount int      `json:"row_count"`
	Columns  []string `json:"columns"`
	Message  string   `json:"message,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Success builds an envelope from rows. emptyMessage is attached only when
// there are no rows.
func Success[R Row](rows []R, emptyMessage string) *Envelope {
	env := &Envelope{
		Results: make([]Row, 0, len(rows)),
		Columns: []string{},
	}
	for _, row := range rows {
		env.Results = append(env.Results, row)
	}
	env.RowCount = len(env.Results)
	if env.RowCount > 0 {
		env.Columns = append(env.Columns, env.Results[0].Columns()...)
	} else {
		env.Message = emptyMessage
	}
	return env
}

// Failure builds an envelope that carries only an error.
func Failure(message string) *Envelope {
	return &Envelope{
		Results: []Row{},
		Columns: []string{},
		Error:   message,
	}
}

// Failed reports whether the envelope carries an error
func (e *Envelope) Failed() bool {
	return e.Error != ""
}

// JSON renders the envelope as indented JSON text.
func (e *Envelope) JSON() (string, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// String renders the envelope, falling back to an error envelope when a row
// value cannot be encoded. It always returns parseable JSON.
func (e *Envelope) String() string {
	text, err := e.JSON()
	if err == nil {
		return text
	}
	text, _ = Failure("failed to encode results: " + err.Error()).JSON()
	return text
}
