package wikibase

import (
	"encoding/json"
	"strings"
)

// apiResponse is the subset of Action API responses the client reads.
type apiResponse struct {
	Error    *apiError         `json:"error,omitempty"`
	Query    queryResult       `json:"query"`
	Login    loginResult       `json:"login"`
	Entities map[string]entity `json:"entities,omitempty"`
	Entity   *entity           `json:"entity,omitempty"`
	Success  int               `json:"success"`
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type queryResult struct {
	Tokens struct {
		LoginToken string `json:"logintoken"`
		CSRFToken  string `json:"csrftoken"`
	} `json:"tokens"`
}

type loginResult struct {
	Result   string          `json:"result"`
	Reason   json.RawMessage `json:"reason,omitempty"`
	Username string          `json:"lgusername"`
}

// reason renders the login failure reason, which is a plain string on older
// wikis and a message object on newer ones.
func (l loginResult) reason() string {
	if len(l.Reason) == 0 {
		return l.Result
	}
	var s string
	if err := json.Unmarshal(l.Reason, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(l.Reason))
}

type entity struct {
	ID        string                 `json:"id"`
	LastRevID int64                  `json:"lastrevid"`
	Missing   *string                `json:"missing,omitempty"`
	Claims    map[string][]statement `json:"claims,omitempty"`
}

type statement struct {
	ID       string `json:"id,omitempty"`
	Type     string `json:"type"`
	MainSnak snak   `json:"mainsnak"`
	Rank     string `json:"rank,omitempty"`
	statementExtra
}

// statementExtra holds the statement parts the client does not model.
// Wikibase replaces a statement by GUID, so they must round-trip unchanged.
type statementExtra struct {
	Qualifiers      json.RawMessage `json:"qualifiers,omitempty"`
	QualifiersOrder json.RawMessage `json:"qualifiers-order,omitempty"`
	References      json.RawMessage `json:"references,omitempty"`
}

type snak struct {
	SnakType  string     `json:"snaktype"`
	Property  string     `json:"property"`
	DataValue *dataValue `json:"datavalue,omitempty"`
}

type dataValue struct {
	Value json.RawMessage `json:"value"`
	Type  string          `json:"type"`
}

// editData is the data parameter of wbeditentity.
type editData struct {
	Claims []statement `json:"claims"`
}

func (e entity) item() *Item {
	it := NewItem(e.ID)
	it.LastRevID = e.LastRevID
	for prop, stmts := range e.Claims {
		claims := make([]Claim, 0, len(stmts))
		for _, s := range stmts {
			claims = append(claims, s.claim(prop))
		}
		it.Claims[prop] = claims
	}
	return it
}

func (s statement) claim(property string) Claim {
	c := Claim{ID: s.ID, Property: property, Rank: s.Rank, extra: s.statementExtra}
	if s.MainSnak.Property != "" {
		c.Property = s.MainSnak.Property
	}
	if dv := s.MainSnak.DataValue; dv != nil && dv.Type == "string" {
		_ = json.Unmarshal(dv.Value, &c.Value)
	}
	return c
}

func toStatement(c Claim) statement {
	value, _ := json.Marshal(c.Value)
	rank := c.Rank
	if rank == "" {
		rank = RankNormal
	}
	return statement{
		ID:   c.ID,
		Type: "statement",
		MainSnak: snak{
			SnakType:  "value",
			Property:  c.Property,
			DataValue: &dataValue{Value: value, Type: "string"},
		},
		Rank:           rank,
		statementExtra: c.extra,
	}
}
