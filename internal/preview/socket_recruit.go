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
	"github.com/saiyolab/lpengine/internal/order"
	"github.com/saiyolab/lpengine/internal/settings"
	"github.com/saiyolab/lpengine/internal/store"
)

// ServeRecruit upgrades the connection and runs a recruit-page editing
// session for the company identified by companyDomain.
func (h *Hub) ServeRecruit(w http.ResponseWriter, r *http.Request, companyDomain string) {
	ctx := r.Context()

	var (
		rs      *settings.RecruitSettings
		company *entity.Company
		jobs    []entity.Job
	)
	g, gCtx := errgroup.WithContext(ctx)
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
		log.Printf("[PREVIEW] failed to load session data for %s: %v", companyDomain, err)
		http.Error(w, "failed to load settings", http.StatusBadGateway)
		return
	}

	session, err := editor.NewRecruitSession(rs)
	if err != nil {
		http.Error(w, "failed to start session", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[PREVIEW] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ps := &recruitSocket{
		hub:     h,
		conn:    conn,
		session: session,
		company: company,
		jobs:    jobs,
		domain:  companyDomain,
	}
	ps.model = order.NewModel(order.CanonicalRecruit)
	draft := session.Draft()
	ps.model.Load(draft.SectionOrder, draft.SectionVisibility)
	ps.model.OnReorder(func(ids []string) {
		csv := order.Serialize(ids)
		session.Update(func(s *settings.RecruitSettings) { s.SectionOrder = csv })
		ps.driver.Input()
	})
	ps.driver = NewDriver(ps.render, ps.emit)
	ps.driver.Flush()
	ps.loop()
}

// recruitSocket is one connected recruit-page editing session.
type recruitSocket struct {
	hub     *Hub
	conn    *websocket.Conn
	writeMu sync.Mutex
	session *editor.RecruitSession
	model   *order.Model
	driver  *Driver
	company *entity.Company
	jobs    []entity.Job
	domain  string
}

func (s *recruitSocket) render() string {
	cfg := settings.ResolveRecruit(s.session.Draft(), "")
	return s.hub.composer.Compose(compose.Input{
		Company: s.company,
		Jobs:    s.jobs,
		Config:  cfg,
	}, compose.Options{Now: time.Now()})
}

func (s *recruitSocket) emit(html string) {
	s.send(Envelope{Type: "preview", HTML: html})
	dirty := s.session.Dirty()
	s.send(Envelope{Type: "dirty", Dirty: &dirty})
}

func (s *recruitSocket) send(env Envelope) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(env); err != nil {
		log.Printf("[PREVIEW] write failed: %v", err)
	}
}

func (s *recruitSocket) sendError(msg string) {
	s.send(Envelope{Type: "error", Message: msg})
}

func (s *recruitSocket) loop() {
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

func (s *recruitSocket) handle(env Envelope) {
	switch env.Type {
	case "update":
		var draft settings.RecruitSettings
		if err := json.Unmarshal(env.Settings, &draft); err != nil {
			s.sendError("入力内容を読み取れませんでした")
			return
		}
		s.session.Update(func(cur *settings.RecruitSettings) {
			draft.CompanyDomain = cur.CompanyDomain
			*cur = draft
		})
		// New custom sections arrive without ids; mint them before the order
		// string can reference a section the renderer cannot find.
		s.session.Update(func(cur *settings.RecruitSettings) {
			settings.EnsureCustomSectionIDs(cur)
		})
		d := s.session.Draft()
		s.model.Load(d.SectionOrder, d.SectionVisibility)
		s.driver.Input()
	case "setOrder":
		s.model.SetOrder(env.Order)
	case "drop":
		s.model.Drop(env.ID, env.PointerY, env.Boxes)
	case "toggleSection":
		visible := env.Visible == nil || *env.Visible
		s.model.SetVisible(env.ID, visible)
		visJSON := order.SerializeVisibility(s.model.Visibility())
		s.session.Update(func(cur *settings.RecruitSettings) { cur.SectionVisibility = visJSON })
		s.driver.Input()
	case "visibility":
		s.driver.SetVisible(env.Visible == nil || *env.Visible)
	case "refresh":
		s.driver.Flush()
	case "save":
		if err := s.hub.saver.SaveRecruit(context.Background(), s.session); err != nil {
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

func (s *recruitSocket) saveDraft() {
	draft := s.session.Draft()
	raw, err := json.Marshal(draft)
	if err != nil {
		s.sendError("下書きの保存に失敗しました")
		return
	}
	key := store.DraftKey(s.domain)
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
