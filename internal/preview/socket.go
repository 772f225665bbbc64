package preview

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/saiyolab/lpengine/internal/compose"
	"github.com/saiyolab/lpengine/internal/editor"
	"github.com/saiyolab/lpengine/internal/entity"
	"github.com/saiyolab/lpengine/internal/gas"
	"github.com/saiyolab/lpengine/internal/order"
	"github.com/saiyolab/lpengine/internal/settings"
	"github.com/saiyolab/lpengine/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the editor runs same-origin; tighten when embedding elsewhere
	},
}

// Envelope is the message format in both directions on the preview socket.
type Envelope struct {
	Type     string          `json:"type"`
	Settings json.RawMessage `json:"settings,omitempty"`
	Visible  *bool           `json:"visible,omitempty"`
	Order    []string        `json:"order,omitempty"`
	ID       string          `json:"id,omitempty"`
	PointerY float64         `json:"pointerY,omitempty"`
	Boxes    []order.Box     `json:"boxes,omitempty"`
	HTML     string          `json:"html,omitempty"`
	Message  string          `json:"message,omitempty"`
	Dirty    *bool           `json:"dirty,omitempty"`
	Token    string          `json:"token,omitempty"`
}

// Hub accepts preview socket connections and runs one editing session per
// connection.
type Hub struct {
	bridge   *gas.Client
	saver    *editor.Saver
	store    store.Store
	tokens   *TokenService
	composer *compose.Composer
}

// NewHub wires a preview hub.
func NewHub(bridge *gas.Client, saver *editor.Saver, st store.Store, tokens *TokenService) *Hub {
	return &Hub{
		bridge:   bridge,
		saver:    saver,
		store:    st,
		tokens:   tokens,
		composer: compose.New(),
	}
}

// ServeLP upgrades the connection and runs an LP editing session for the
// job identified by companyDomain and jobID.
func (h *Hub) ServeLP(w http.ResponseWriter, r *http.Request, companyDomain, jobID string) {
	ctx := r.Context()

	var (
		lp      *settings.LPSettings
		rs      *settings.RecruitSettings
		company *entity.Company
		jobs    []entity.Job
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lp, err = h.bridge.GetLPSettings(gCtx, companyDomain, jobID)
		return err
	})
	g.Go(func() error {
		var err error
		rs, err = h.bridge.GetRecruitSettings(gCtx, companyDomain)
		return err
	})
	g.Go(func() error {
		var err error
		company, jobs, err = loadCompanyJobs(gCtx, h.bridge, companyDomain)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("[PREVIEW] failed to load session data for %s_%s: %v", companyDomain, jobID, err)
		http.Error(w, "failed to load settings", http.StatusBadGateway)
		return
	}

	session, err := editor.NewLPSession(lp)
	if err != nil {
		http.Error(w, "failed to start session", http.StatusInternalServerError)
		return
	}

	// The LP page shows the job being edited.
	job := pickJob(jobs, jobID)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[PREVIEW] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ps := &lpSocket{
		hub:     h,
		conn:    conn,
		session: session,
		recruit: rs,
		company: company,
		job:     job,
		jobKey:  companyDomain + "_" + jobID,
	}
	ps.model = order.NewModel(order.CanonicalLP)
	draft := session.Draft()
	ps.model.Load(draft.SectionOrder, draft.SectionVisibility)
	ps.model.OnReorder(func(ids []string) {
		csv := order.Serialize(ids)
		session.Update(func(s *settings.LPSettings) { s.SectionOrder = csv })
		ps.driver.Input()
	})
	ps.driver = NewDriver(ps.render, ps.emit)
	ps.driver.Flush()
	ps.loop()
}

// lpSocket is one connected LP editing session.
type lpSocket struct {
	hub     *Hub
	conn    *websocket.Conn
	writeMu sync.Mutex
	session *editor.LPSession
	model   *order.Model
	driver  *Driver
	recruit *settings.RecruitSettings
	company *entity.Company
	job     *entity.Job
	jobKey  string
}

// render composes the preview body through the shared rendering path.
// Body-only mode: the editor iframe supplies its own document shell.
func (s *lpSocket) render() string {
	cfg := settings.ResolveLP(s.session.Draft(), s.recruit, "")
	var jobs []entity.Job
	if s.job != nil {
		jobs = []entity.Job{*s.job}
	}
	return s.hub.composer.Compose(compose.Input{
		Company: s.company,
		Jobs:    jobs,
		Config:  cfg,
	}, compose.Options{Now: time.Now()})
}

func (s *lpSocket) emit(html string) {
	s.send(Envelope{Type: "preview", HTML: html})
	dirty := s.session.Dirty()
	s.send(Envelope{Type: "dirty", Dirty: &dirty})
}

func (s *lpSocket) send(env Envelope) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(env); err != nil {
		log.Printf("[PREVIEW] write failed: %v", err)
	}
}

func (s *lpSocket) sendError(msg string) {
	s.send(Envelope{Type: "error", Message: msg})
}

// loop reads edit events until the connection closes.
func (s *lpSocket) loop() {
	for {
		var env Envelope
		if err := s.conn.ReadJSON(&env); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[PREVIEW] read failed: %v", err)
			}
			return
		}
		s.handle(env)
	}
}

func (s *lpSocket) handle(env Envelope) {
	switch env.Type {
	case "update":
		var draft settings.LPSettings
		if err := json.Unmarshal(env.Settings, &draft); err != nil {
			s.sendError("入力内容を読み取れませんでした")
			return
		}
		s.session.Update(func(cur *settings.LPSettings) {
			draft.CompanyDomain = cur.CompanyDomain
			draft.JobID = cur.JobID
			*cur = draft
		})
		s.model.Load(draft.SectionOrder, draft.SectionVisibility)
		s.driver.Input()
	case "setOrder":
		s.model.SetOrder(env.Order)
	case "drop":
		s.model.Drop(env.ID, env.PointerY, env.Boxes)
	case "toggleSection":
		visible := env.Visible == nil || *env.Visible
		s.model.SetVisible(env.ID, visible)
		visJSON := order.SerializeVisibility(s.model.Visibility())
		s.session.Update(func(cur *settings.LPSettings) { cur.SectionVisibility = visJSON })
		s.driver.Input()
	case "visibility":
		s.driver.SetVisible(env.Visible == nil || *env.Visible)
	case "refresh":
		s.driver.Flush()
	case "save":
		if err := s.hub.saver.SaveLP(context.Background(), s.session); err != nil {
			s.sendError("保存に失敗しました: " + err.Error())
			return
		}
		s.send(Envelope{Type: "saved"})
		dirty := s.session.Dirty()
		s.send(Envelope{Type: "dirty", Dirty: &dirty})
	case "reset":
		s.session.Reset()
		draft := s.session.Draft()
		s.model.Load(draft.SectionOrder, draft.SectionVisibility)
		s.driver.Flush()
	case "draft":
		s.saveDraft()
	default:
		log.Printf("[PREVIEW] unknown message type %q", env.Type)
	}
}

// saveDraft parks the current draft server-side and returns a signed link
// token so the draft can be opened on the public path with ?preview=.
func (s *lpSocket) saveDraft() {
	draft := s.session.Draft()
	raw, err := json.Marshal(draft)
	if err != nil {
		s.sendError("下書きの保存に失敗しました")
		return
	}
	key := store.DraftKey(s.jobKey)
	if err := s.hub.store.SaveDraft(context.Background(), key, raw); err != nil {
		s.sendError("下書きの保存に失敗しました: " + err.Error())
		return
	}
	token, err := s.hub.tokens.Sign(key)
	if err != nil {
		s.sendError("下書きの保存に失敗しました: " + err.Error())
		return
	}
	s.send(Envelope{Type: "draftSaved", Token: token})
}

// loadCompanyJobs fetches the company record and its jobs in one pass.
func loadCompanyJobs(ctx context.Context, bridge *gas.Client, companyDomain string) (*entity.Company, []entity.Job, error) {
	companies, err := bridge.GetCompanies(ctx)
	if err != nil {
		return nil, nil, err
	}
	var company *entity.Company
	for i := range companies {
		if companies[i].Domain == companyDomain {
			company = &companies[i]
			break
		}
	}
	jobs, err := bridge.GetJobs(ctx, companyDomain)
	if err != nil {
		return nil, nil, err
	}
	return company, jobs, nil
}

func pickJob(jobs []entity.Job, jobID string) *entity.Job {
	for i := range jobs {
		if jobs[i].ID == jobID {
			return &jobs[i]
		}
	}
	return nil
}
