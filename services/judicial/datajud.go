package judicial

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DataJudBaseURL is the CNJ public API root
const DataJudBaseURL = "https://api-publica.datajud.cnj.jus.br"

// CountryBrazil is the registry key of the DataJud provider
const CountryBrazil = "BR"

// states in CNJ court-code order (TR 01 = AC ... TR 27 = TO)
var states = []string{
	"ac", "al", "ap", "am", "ba", "ce", "df", "es", "go", "ma", "mt", "ms", "mg", "pa",
	"pb", "pr", "pe", "pi", "rj", "rn", "rs", "ro", "rr", "sc", "se", "sp", "to",
}

// DataJudService implements Provider for Brazilian courts
type DataJudService struct {
	BaseService
	baseURL string
	apiKey  string
}

// NewDataJudService creates a new instance
func NewDataJudService(baseURL, apiKey string, timeout time.Duration) *DataJudService {
	if baseURL == "" {
		baseURL = DataJudBaseURL
	}
	return &DataJudService{
		BaseService: NewBaseService(timeout),
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
	}
}

// DataJudTime handles the several date encodings found in court records
type DataJudTime struct {
	time.Time
}

var dataJudLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"20060102150405",
	"2006-01-02",
}

func (dt *DataJudTime) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	s, err := strconv.Unquote(s)
	if err != nil {
		return fmt.Errorf("invalid date %s: %w", b, err)
	}
	if s == "" {
		return nil
	}

	for _, layout := range dataJudLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			dt.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized date format: %q", s)
}

func (dt *DataJudTime) ptr() *time.Time {
	if dt == nil || dt.IsZero() {
		return nil
	}
	t := dt.Time
	return &t
}

// === DataJud Internal Structs ===

type djNamed struct {
	Codigo int    `json:"codigo"`
	Nome   string `json:"nome"`
}

type djComplement struct {
	Nome      string `json:"nome"`
	Descricao string `json:"descricao"`
}

type djMovement struct {
	Codigo                int            `json:"codigo"`
	Nome                  string         `json:"nome"`
	DataHora              *DataJudTime   `json:"dataHora"`
	ComplementosTabelados []djComplement `json:"complementosTabelados"`
}

type djProcess struct {
	NumeroProcesso            string       `json:"numeroProcesso"`
	Tribunal                  string       `json:"tribunal"`
	Grau                      string       `json:"grau"`
	NivelSigilo               int          `json:"nivelSigilo"`
	Classe                    djNamed      `json:"classe"`
	OrgaoJulgador             djNamed      `json:"orgaoJulgador"`
	Assuntos                  []djNamed    `json:"assuntos"`
	DataAjuizamento           *DataJudTime `json:"dataAjuizamento"`
	DataHoraUltimaAtualizacao *DataJudTime `json:"dataHoraUltimaAtualizacao"`
	Movimentos                []djMovement `json:"movimentos"`
}

type djSearchResponse struct {
	Hits struct {
		Hits []struct {
			Source djProcess `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// TribunalAlias maps the J and TR digits of a unified number to the DataJud index alias
func TribunalAlias(segment, court string) (string, error) {
	tr, err := strconv.Atoi(court)
	if err != nil {
		return "", fmt.Errorf("%w: court %q", ErrUnsupportedCourt, court)
	}
	state := func() (string, bool) {
		if tr < 1 || tr > len(states) {
			return "", false
		}
		return states[tr-1], true
	}

	switch segment {
	case "3":
		return "stj", nil
	case "4":
		if tr >= 1 && tr <= 6 {
			return fmt.Sprintf("trf%d", tr), nil
		}
	case "5":
		if tr == 0 {
			return "tst", nil
		}
		if tr >= 1 && tr <= 24 {
			return fmt.Sprintf("trt%d", tr), nil
		}
	case "6":
		if tr == 0 {
			return "tse", nil
		}
		if uf, ok := state(); ok {
			return "tre-" + uf, nil
		}
	case "7":
		return "stm", nil
	case "8":
		if uf, ok := state(); ok {
			if uf == "df" {
				return "tjdft", nil
			}
			return "tj" + uf, nil
		}
	case "9":
		switch tr {
		case 13:
			return "tjmmg", nil
		case 21:
			return "tjmrs", nil
		case 26:
			return "tjmsp", nil
		}
	}
	return "", fmt.Errorf("%w: segment %s court %s", ErrUnsupportedCourt, segment, court)
}

// LookupProcess implements Provider. number must hold the 20 digits.
func (s *DataJudService) LookupProcess(ctx context.Context, number string) (*GenericProcessSummary, error) {
	if len(number) != 20 {
		return nil, fmt.Errorf("process number must have 20 digits, got %d", len(number))
	}

	alias, err := TribunalAlias(number[13:14], number[14:16])
	if err != nil {
		return nil, err
	}

	query, err := json.Marshal(map[string]interface{}{
		"size": 1,
		"query": map[string]interface{}{
			"match": map[string]string{"numeroProcesso": number},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	reqURL := fmt.Sprintf("%s/api_publica_%s/_search", s.baseURL, alias)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "APIKey "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("API returned status: %d", resp.StatusCode)
	}

	var searchResp djSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(searchResp.Hits.Hits) == 0 {
		return nil, nil // No process found
	}

	return summarize(searchResp.Hits.Hits[0].Source), nil
}

func summarize(p djProcess) *GenericProcessSummary {
	summary := &GenericProcessSummary{
		Number:    p.NumeroProcesso,
		Court:     p.Tribunal,
		Degree:    p.Grau,
		Class:     p.Classe.Nome,
		Office:    p.OrgaoJulgador.Nome,
		Subjects:  make([]string, 0, len(p.Assuntos)),
		IsPrivate: p.NivelSigilo > 0,
		FiledAt:   p.DataAjuizamento.ptr(),
		UpdatedAt: p.DataHoraUltimaAtualizacao.ptr(),
		Actions:   make([]GenericAction, 0, len(p.Movimentos)),
	}

	for _, a := range p.Assuntos {
		if a.Nome != "" {
			summary.Subjects = append(summary.Subjects, a.Nome)
		}
	}

	for _, m := range p.Movimentos {
		action := GenericAction{
			ExternalID: strconv.Itoa(m.Codigo),
			Type:       m.Nome,
		}
		if m.DataHora != nil {
			action.ActionDate = m.DataHora.Time
		}

		var notes []string
		for _, c := range m.ComplementosTabelados {
			switch {
			case c.Nome != "" && c.Descricao != "":
				notes = append(notes, c.Descricao+": "+c.Nome)
			case c.Nome != "":
				notes = append(notes, c.Nome)
			}
		}
		action.Annotation = strings.Join(notes, "; ")

		summary.Actions = append(summary.Actions, action)
	}

	// most recent first
	sort.SliceStable(summary.Actions, func(i, j int) bool {
		return summary.Actions[i].ActionDate.After(summary.Actions[j].ActionDate)
	})

	return summary
}
