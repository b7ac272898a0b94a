package mockapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gorilla/mux"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/questlabs/api-test-harness/framework"
	"github.com/questlabs/api-test-harness/framework/harness"
)

// Service is an in-process stand-in for the quest API, used for self-testing the
// harness and for trying out configuration files without a real deployment. It
// implements the same form-field contract the harness sends: every command takes a
// "uid" and a "data" field and answers with a JSON document.
type Service struct {
	handler     http.Handler
	debugLogger framework.Logger
	commands    map[string]commandHandler
}

// commandHandler validates an already-decoded payload and produces the response.
type commandHandler func(uid string, payload ldvalue.Value) (int, ldvalue.Value)

var validUID = regexp.MustCompile(`^[0-9]+$`)

func NewService(debugLogger framework.Logger) *Service {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	s := &Service{debugLogger: debugLogger}
	s.commands = map[string]commandHandler{
		"FetchQuestList":         s.fetchQuestList,
		"SkipMainQuest":          s.skipMainQuest,
		"ClaimQuestRewards":      s.claimQuestRewards,
		"ReportQuestProgress":    s.reportQuestProgress,
		"FetchQuestActivityData": s.fetchQuestActivityData,
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/Quest/{command}", s.serveCommand).Methods("POST")
	router.HandleFunc("/api/Quest", s.serveStatus).Methods("GET")
	s.handler = router
	return s
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// serveStatus answers the connectivity pre-check.
func (s *Service) serveStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ldvalue.ObjectBuild().Set("status", ldvalue.String("ok")).Build())
}

func (s *Service) serveCommand(w http.ResponseWriter, r *http.Request) {
	command := mux.Vars(r)["command"]
	handler, ok := s.commands[command]
	if !ok {
		known := maps.Keys(s.commands)
		slices.Sort(known)
		writeJSON(w, http.StatusNotFound,
			errorBody(fmt.Sprintf("unknown command %q; known commands: %s", command, strings.Join(known, ", "))))
		return
	}

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("malformed form body"))
		return
	}
	uid := r.PostFormValue(harness.FormFieldUID)
	if uid == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("missing required field: uid"))
		return
	}
	if !validUID.MatchString(uid) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid uid format"))
		return
	}
	if _, ok := r.PostForm[harness.FormFieldData]; !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("missing required field: data"))
		return
	}
	data := r.PostFormValue(harness.FormFieldData)
	if !json.Valid([]byte(data)) {
		writeJSON(w, http.StatusBadRequest, errorBody("data is not valid JSON"))
		return
	}

	s.debugLogger.Printf("handling %s for uid=%s data=%s", command, uid, data)
	status, body := handler(uid, ldvalue.Parse([]byte(data)))
	writeJSON(w, status, body)
}

func (s *Service) fetchQuestList(uid string, payload ldvalue.Value) (int, ldvalue.Value) {
	if payload.Type() != ldvalue.ObjectType {
		return http.StatusBadRequest, errorBody("data must be an object")
	}
	page := payload.GetByKey("page").IntValue()
	if page <= 0 {
		return http.StatusBadRequest, errorBody("page must be a positive integer")
	}
	quests := ldvalue.ArrayBuild().
		Add(questSummary(1001, "The Lost Caravan", "active")).
		Add(questSummary(1002, "Echoes of the Deep", "completed")).
		Build()
	return http.StatusOK, ldvalue.ObjectBuild().
		Set("uid", ldvalue.String(uid)).
		Set("page", ldvalue.Int(page)).
		Set("quests", quests).
		Build()
}

func (s *Service) skipMainQuest(uid string, payload ldvalue.Value) (int, ldvalue.Value) {
	questID, errResp := requireQuestID(payload)
	if errResp != nil {
		return http.StatusBadRequest, *errResp
	}
	return http.StatusOK, ldvalue.ObjectBuild().
		Set("uid", ldvalue.String(uid)).
		Set("questId", ldvalue.Int(questID)).
		Set("skipped", ldvalue.Bool(true)).
		Build()
}

func (s *Service) claimQuestRewards(uid string, payload ldvalue.Value) (int, ldvalue.Value) {
	questID, errResp := requireQuestID(payload)
	if errResp != nil {
		return http.StatusBadRequest, *errResp
	}
	rewards := ldvalue.ArrayBuild().
		Add(ldvalue.ObjectBuild().Set("item", ldvalue.String("gold")).Set("amount", ldvalue.Int(250)).Build()).
		Build()
	return http.StatusOK, ldvalue.ObjectBuild().
		Set("uid", ldvalue.String(uid)).
		Set("questId", ldvalue.Int(questID)).
		Set("rewards", rewards).
		Build()
}

func (s *Service) reportQuestProgress(uid string, payload ldvalue.Value) (int, ldvalue.Value) {
	questID, errResp := requireQuestID(payload)
	if errResp != nil {
		return http.StatusBadRequest, *errResp
	}
	progress := payload.GetByKey("progress")
	if progress.IsNull() {
		return http.StatusBadRequest, errorBody("missing required field: progress")
	}
	return http.StatusOK, ldvalue.ObjectBuild().
		Set("uid", ldvalue.String(uid)).
		Set("questId", ldvalue.Int(questID)).
		Set("progress", progress).
		Set("accepted", ldvalue.Bool(true)).
		Build()
}

func (s *Service) fetchQuestActivityData(uid string, payload ldvalue.Value) (int, ldvalue.Value) {
	if payload.Type() != ldvalue.ObjectType {
		return http.StatusBadRequest, errorBody("data must be an object")
	}
	activityIDs := payload.GetByKey("activityIds")
	if activityIDs.Type() != ldvalue.ArrayType {
		return http.StatusBadRequest, errorBody("activityIds must be an array")
	}
	// An empty list is valid: it simply selects no activities.
	activities := ldvalue.ArrayBuild()
	for i := 0; i < activityIDs.Count(); i++ {
		id := activityIDs.GetByIndex(i)
		activities.Add(ldvalue.ObjectBuild().
			Set("activityId", id).
			Set("completed", ldvalue.Bool(i%2 == 0)).
			Build())
	}
	return http.StatusOK, ldvalue.ObjectBuild().
		Set("uid", ldvalue.String(uid)).
		Set("activities", activities.Build()).
		Build()
}

func requireQuestID(payload ldvalue.Value) (int, *ldvalue.Value) {
	if payload.Type() != ldvalue.ObjectType {
		body := errorBody("data must be an object")
		return 0, &body
	}
	questID := payload.GetByKey("questId").IntValue()
	if questID <= 0 {
		body := errorBody("invalid quest id")
		return 0, &body
	}
	return questID, nil
}

func questSummary(id int, name, status string) ldvalue.Value {
	return ldvalue.ObjectBuild().
		Set("questId", ldvalue.Int(id)).
		Set("name", ldvalue.String(name)).
		Set("status", ldvalue.String(status)).
		Build()
}

func errorBody(message string) ldvalue.Value {
	return ldvalue.ObjectBuild().Set("error", ldvalue.String(message)).Build()
}

func writeJSON(w http.ResponseWriter, status int, body ldvalue.Value) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body.JSONString()))
}
