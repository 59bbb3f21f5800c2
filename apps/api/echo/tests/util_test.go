package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/classroom/apps/api/echo"
	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/calendar"
	"github.com/trezcool/classroom/core/roster"
	"github.com/trezcool/classroom/tests"
)

type app struct {
	Server
	stack    *testutil.Stack
	binder   *roster.Binder
	modals   *roster.ModalSet
	messages *roster.Messages
}

func setup(t *testing.T, source ...calendar.Source) *app {
	stack := testutil.NewStack(t, source...)

	binder := roster.NewBinder(roster.StoreSource{Groups: stack.Groups, Events: stack.Events}, core.NopLogger{})
	stack.Groups.Subscribe(binder.Request)
	stack.Events.Subscribe(binder.Request)
	modals := roster.NewModalSet()
	messages := new(roster.Messages)
	forms := roster.NewFormController(
		roster.Services{
			Groups:     stack.Groups,
			Events:     stack.Events,
			Students:   stack.Students,
			Homework:   stack.Homework,
			Attendance: stack.Attendance,
		},
		binder, modals, messages, stack.Translator,
	)

	srv := NewServer(ServerDeps{
		Conf: &core.Config{
			TestMode: true,
			AppName:  "Classroom",
			Build:    "test",
			Server:   core.ServerConfig{DisableReqLogs: true},
		},
		Logger:     core.NopLogger{},
		Translator: stack.Translator,
		Groups:     stack.Groups,
		Events:     stack.Events,
		Students:   stack.Students,
		Homework:   stack.Homework,
		Attendance: stack.Attendance,
		Binder:     binder,
		Forms:      forms,
		Modals:     modals,
		Messages:   messages,
		Widgets: []*roster.Widget{
			binder.Widget(roster.MainCalendar, stack.Events),
			binder.Widget(roster.MiniCalendar, stack.Events),
		},
	})
	return &app{Server: srv, stack: stack, binder: binder, modals: modals, messages: messages}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func do(t *testing.T, srv http.Handler, method, path string, data ...[]byte) *httptest.ResponseRecorder {
	t.Helper()
	req, rec := newRequest(method, path, data...)
	srv.ServeHTTP(rec, req)
	return rec
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func unmarshall(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshall() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	} else if !ok {
		t.Errorf("failed! data = %s; wantData %s", rec.Body.String(), tt.wantData)
	}
}

func runHttpTests(t *testing.T, srv http.Handler, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
}
