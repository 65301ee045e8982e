package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kizuna_web/internals/configs"
	eventModel "kizuna_web/internals/features/content/events/model"
	jobModel "kizuna_web/internals/features/content/jobs/model"
	jobService "kizuna_web/internals/features/content/jobs/service"
	newsModel "kizuna_web/internals/features/content/news/model"
	authModel "kizuna_web/internals/features/users/auth/model"
	"kizuna_web/internals/features/users/auth/repository"
	authService "kizuna_web/internals/features/users/auth/service"
	helper "kizuna_web/internals/helpers"
	"kizuna_web/internals/helpers/storage"
	routes "kizuna_web/internals/route"
	"kizuna_web/internals/store"
)

const (
	adminEmail    = "admin@kizuna.test"
	adminPassword = "correct horse battery"
	jobsPassword  = "kizuna-members"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

type testEnv struct {
	app    *fiber.App
	events *store.MemoryTable[eventModel.EventModel]
	news   *store.MemoryTable[newsModel.NewsModel]
	jobs   *store.MemoryTable[jobModel.JobModel]
	bucket *storage.MemoryBucket
}

func newTestEnv(t *testing.T, appEnv string, opts ...func(*configs.Settings)) *testEnv {
	t.Helper()
	s := &configs.Settings{
		AppEnv:             appEnv,
		Port:               "3000",
		JWTSecret:          "test-secret",
		SessionTTL:         time.Hour,
		JobsBoardPassword:  jobsPassword,
		JobsPassTTL:        24 * time.Hour,
		StorageDriver:      "memory",
		PDFMaxBytes:        1 << 20,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
	}
	for _, opt := range opts {
		opt(s)
	}

	env := &testEnv{
		events: store.NewMemoryTable[eventModel.EventModel](eventModel.Spec),
		news:   store.NewMemoryTable[newsModel.NewsModel](newsModel.Spec),
		jobs:   store.NewMemoryTable[jobModel.JobModel](jobModel.Spec),
		bucket: storage.NewMemoryBucket("http://localhost:3000/_objects"),
	}
	sessions := authService.NewSessionManager(
		store.NewMemoryTable[authModel.AdminUserModel](authModel.AdminSpec),
		repository.NewMemoryBlacklist(),
		s.JWTSecret, s.SessionTTL,
	)
	require.NoError(t, sessions.EnsureAdmin(context.Background(), adminEmail, adminPassword))

	env.app = New(routes.Deps{
		Settings: s,
		Events:   env.events,
		News:     env.news,
		Jobs:     jobService.NewJobService(env.jobs, jobService.NewPDFGateway(env.bucket, s.PDFMaxBytes)),
		Sessions: sessions,
		JobsPass: authService.NewJobsPass(s.JobsBoardPassword, s.JWTSecret, s.JobsPassTTL),
		Bucket:   env.bucket,
		DBPing:   func(ctx context.Context) error { return nil },
	})
	return env
}

/* ==========================
   a tiny cookie-keeping client
========================== */

type browser struct {
	t   *testing.T
	app *fiber.App
	jar map[string]string
}

func (e *testEnv) browser(t *testing.T) *browser {
	return &browser{t: t, app: e.app, jar: map[string]string{}}
}

func (b *browser) do(req *http.Request) *http.Response {
	b.t.Helper()
	for name, value := range b.jar {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Value == "" || ck.MaxAge < 0 {
			delete(b.jar, ck.Name)
			continue
		}
		b.jar[ck.Name] = ck.Value
	}
	return resp
}

func (b *browser) get(path string) *http.Response {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// postForm submits like an admin form, CSRF token included.
func (b *browser) postForm(path string, vals url.Values) *http.Response {
	if vals == nil {
		vals = url.Values{}
	}
	vals.Set("_csrf", b.jar["csrf_"])
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(vals.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return b.do(req)
}

func (b *browser) postMultipart(path string, vals url.Values, filename, contentType string, data []byte) *http.Response {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	vals.Set("_csrf", b.jar["csrf_"])
	for k, vs := range vals {
		for _, v := range vs {
			require.NoError(b.t, w.WriteField(k, v))
		}
	}
	if filename != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="pdf"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(b.t, err)
		_, err = part.Write(data)
		require.NoError(b.t, err)
	}
	require.NoError(b.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return b.do(req)
}

func (b *browser) login() *http.Response {
	b.get("/admin/login")
	return b.postForm("/admin/login", url.Values{"email": {adminEmail}, "password": {adminPassword}})
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func assertRedirect(t *testing.T, resp *http.Response, wantPrefix string) {
	t.Helper()
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get(fiber.HeaderLocation), wantPrefix),
		"location %q should start with %q", resp.Header.Get(fiber.HeaderLocation), wantPrefix)
}

func findEvent(t *testing.T, env *testEnv, title string) eventModel.EventModel {
	t.Helper()
	rows, err := env.events.List(context.Background(), store.ListOptions{})
	require.NoError(t, err)
	for _, r := range rows {
		if r.Title == title {
			return r
		}
	}
	t.Fatalf("event %q not found", title)
	return eventModel.EventModel{}
}

func findJob(t *testing.T, env *testEnv, title string) jobModel.JobModel {
	t.Helper()
	rows, err := env.jobs.List(context.Background(), store.ListOptions{})
	require.NoError(t, err)
	for _, r := range rows {
		if r.Title == title {
			return r
		}
	}
	t.Fatalf("job %q not found", title)
	return jobModel.JobModel{}
}

/* ==========================
   session gate
========================== */

func TestDashboard_RedirectsWithoutSession(t *testing.T) {
	env := newTestEnv(t, "production")
	b := env.browser(t)

	assertRedirect(t, b.get("/admin/dashboard"), "/admin/login")
	assertRedirect(t, b.get("/admin/events/new"), "/admin/login")
}

func TestDashboard_ShowsAdminAfterLogin(t *testing.T) {
	env := newTestEnv(t, "production")
	b := env.browser(t)

	assertRedirect(t, b.login(), helper.DashboardPath)
	require.NotEmpty(t, b.jar[authService.SessionCookie])

	resp := b.get("/admin/dashboard")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), adminEmail)
}

func TestLogin_WrongPasswordIsGeneric(t *testing.T) {
	env := newTestEnv(t, "production")
	b := env.browser(t)
	b.get("/admin/login")

	resp := b.postForm("/admin/login", url.Values{"email": {adminEmail}, "password": {"nope"}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), authService.ErrInvalidCredentials.Error())
	assert.Empty(t, b.jar[authService.SessionCookie])

	resp = b.postForm("/admin/login", url.Values{"email": {"someone@else.test"}, "password": {adminPassword}})
	assert.Contains(t, readBody(t, resp), authService.ErrInvalidCredentials.Error())
}

func TestLogin_RequiresCSRFToken(t *testing.T) {
	env := newTestEnv(t, "production")
	b := env.browser(t)
	b.get("/admin/login")

	req := httptest.NewRequest(http.MethodPost, "/admin/login",
		strings.NewReader(url.Values{"email": {adminEmail}, "password": {adminPassword}}.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp := b.do(req)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestLogout_RevokesSession(t *testing.T) {
	env := newTestEnv(t, "production")
	b := env.browser(t)
	b.login()
	token := b.jar[authService.SessionCookie]

	assertRedirect(t, b.postForm("/admin/logout", nil), "/admin/login")

	// Replaying the old cookie must not get back in.
	b.jar[authService.SessionCookie] = token
	assertRedirect(t, b.get("/admin/dashboard"), "/admin/login")
}

/* ==========================
   events: create, list, edit, delete
========================== */

func TestEventLifecycle(t *testing.T) {
	env := newTestEnv(t, "production")
	b := env.browser(t)
	b.login()

	resp := b.postForm("/admin/events/new", url.Values{
		"title":       {"第15回 総会"},
		"description": {"年次総会を開催します。"},
		"date":        {"2025-04-01"},
		"location":    {"大阪市内ホテル"},
	})
	assertRedirect(t, resp, helper.DashboardPath+"?notice="+helper.NoticeCreated)
	b.postForm("/admin/events/new", url.Values{
		"title":       {"新年会"},
		"description": {"新年の集い"},
		"date":        {"2025-01-15"},
		"location":    {"京都"},
	})

	page := readBody(t, b.get("/events"))
	require.Contains(t, page, "大阪市内ホテル")
	assert.Less(t, strings.Index(page, "新年会"), strings.Index(page, "第15回 総会"), "events are listed by date ascending")

	id := findEvent(t, env, "第15回 総会").ID.String()

	edit := readBody(t, b.get("/admin/events/edit/"+id))
	assert.Contains(t, edit, `value="2025-04-01"`)

	resp = b.postForm("/admin/events/edit/"+id, url.Values{
		"title":       {"第15回 総会"},
		"description": {"年次総会を開催します。"},
		"date":        {"2025-04-01"},
		"location":    {"東京都内ホテル"},
	})
	assertRedirect(t, resp, helper.DashboardPath)
	page = readBody(t, b.get("/events"))
	assert.Contains(t, page, "東京都内ホテル")
	assert.NotContains(t, page, "大阪市内ホテル")

	assertRedirect(t, b.postForm("/admin/events/delete/"+id, nil), helper.DashboardPath+"?notice="+helper.NoticeDeleted)
	page = readBody(t, b.get("/events"))
	assert.NotContains(t, page, "第15回 総会")
	assert.Contains(t, page, "新年会")
}

func TestEventForm_StoredValuesOutliveTheRequest(t *testing.T) {
	env := newTestEnv(t, "production")
	b := env.browser(t)
	b.login()

	b.postForm("/admin/events/new", url.Values{
		"title":       {"第15回 総会"},
		"description": {"年次総会を開催します。"},
		"date":        {"2025-04-01"},
		"location":    {"大阪市内ホテル"},
	})
	// Same byte lengths, so a reused request buffer would overwrite the first row in place.
	b.postForm("/admin/events/new", url.Values{
		"title":       {"新年会総会"},
		"description": {"新年の集い開催します。"},
		"date":        {"2025-01-15"},
		"location":    {"京都市内ホテル"},
	})
	b.get("/admin/dashboard")

	first := findEvent(t, env, "第15回 総会")
	assert.Equal(t, "大阪市内ホテル", first.Location)
	assert.Equal(t, "年次総会を開催します。", first.Description)
	second := findEvent(t, env, "新年会総会")
	assert.Equal(t, "京都市内ホテル", second.Location)
}

func TestEventForm_MissingFieldStaysOnForm(t *testing.T) {
	env := newTestEnv(t, "production")
	b := env.browser(t)
	b.login()

	resp := b.postForm("/admin/events/new", url.Values{
		"title":       {"  第16回 総会  "},
		"description": {"説明"},
		"date":        {"2026-04-01"},
		"location":    {"   "},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "「場所」を入力してください。")
	assert.Contains(t, body, `value="第16回 総会"`, "submitted values are kept, trimmed")

	rows, err := env.events.List(context.Background(), store.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestEventForm_StoreErrorShownVerbatim(t *testing.T) {
	env := newTestEnv(t, "production")
	b := env.browser(t)
	b.login()
	env.events.FailWith = &store.Error{Op: "insert", Kind: store.KindUnavailable, Message: "connection refused"}

	resp := b.postForm("/admin/events/new", url.Values{
		"title": {"懇親会"}, "description": {"x"}, "date": {"2026-05-01"}, "location": {"名古屋"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "connection refused")
	assert.Contains(t, body, `value="懇親会"`)
}

func TestEditMissingRecord_RedirectsWithBlockingNotice(t *testing.T) {
	env := newTestEnv(t, "production")
	b := env.browser(t)
	b.login()

	resp := b.get("/admin/news/edit/" + uuid.NewString())
	assertRedirect(t, resp, helper.DashboardPath+"?notice="+helper.NoticeMissing)

	body := readBody(t, b.get(resp.Header.Get(fiber.HeaderLocation)))
	assert.Contains(t, body, "alert(")
	assert.Contains(t, body, "指定されたデータが見つかりませんでした。")
}

/* ==========================
   news
========================== */

func TestNewsPage_LatestFirstWithBadge(t *testing.T) {
	env := newTestEnv(t, "production")
	b := env.browser(t)
	b.login()

	for _, n := range []struct{ title, date string }{
		{"古いお知らせ", "2024-12-01"},
		{"新しいお知らせ", "2025-02-01"},
	} {
		resp := b.postForm("/admin/news/new", url.Values{
			"title": {n.title}, "content": {"詳細は https://example.com をご覧ください。\n二行目"}, "published_date": {n.date},
		})
		assertRedirect(t, resp, helper.DashboardPath)
	}

	page := readBody(t, env.browser(t).get("/news"))
	first, second := strings.Index(page, "新しいお知らせ"), strings.Index(page, "古いお知らせ")
	require.True(t, first >= 0 && second >= 0)
	assert.Less(t, first, second)
	assert.Equal(t, 1, strings.Count(page, "最新"))
	assert.Contains(t, page, `<a href="https://example.com">`)
	assert.Contains(t, page, "<br")
}

/* ==========================
   job board gate
========================== */

func seedJobs(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, env.jobs.Insert(ctx, &jobModel.JobModel{Title: "営業職", Company: helper.StrPtr("絆商事"), IsActive: true}))
	require.NoError(t, env.jobs.Insert(ctx, &jobModel.JobModel{Title: "募集終了の求人", IsActive: false}))
}

func TestJobsGate_UnlockPersists(t *testing.T) {
	env := newTestEnv(t, "production")
	seedJobs(t, env)
	b := env.browser(t)

	locked := readBody(t, b.get("/jobs"))
	assert.Contains(t, locked, `action="/jobs/unlock"`)
	assert.NotContains(t, locked, "営業職")

	wrong := url.Values{"password": {"guess"}}
	req := httptest.NewRequest(http.MethodPost, "/jobs/unlock", strings.NewReader(wrong.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp := b.do(req)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "パスワードが正しくありません")
	assert.Empty(t, b.jar[authService.JobsPassCookie])

	right := url.Values{"password": {jobsPassword}}
	req = httptest.NewRequest(http.MethodPost, "/jobs/unlock", strings.NewReader(right.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	assertRedirect(t, b.do(req), "/jobs")
	require.NotEmpty(t, b.jar[authService.JobsPassCookie])

	// A reload carries the pass cookie and stays unlocked.
	for i := 0; i < 2; i++ {
		page := readBody(t, b.get("/jobs"))
		assert.Contains(t, page, "営業職")
		assert.NotContains(t, page, "募集終了の求人", "inactive jobs are hidden")
	}
}

func TestJobsAPI_RequiresPass(t *testing.T) {
	env := newTestEnv(t, "production")
	seedJobs(t, env)
	pass, _, err := authService.NewJobsPass(jobsPassword, "test-secret", time.Hour).Unlock(jobsPassword)
	require.NoError(t, err)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/public/jobs", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/public/jobs", nil)
	req.Header.Set(authService.JobsPassHeader, pass)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Data []struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	require.NoError(t, sonic.UnmarshalString(readBody(t, resp), &out))
	require.Len(t, out.Data, 1)
	assert.Equal(t, "営業職", out.Data[0].Title)
}

/* ==========================
   job form + PDF gateway
========================== */

func TestJobForm_NonPDFIsNeverUploaded(t *testing.T) {
	env := newTestEnv(t, "production")
	b := env.browser(t)
	b.login()

	resp := b.postMultipart("/admin/jobs/new", url.Values{"title": {"経理スタッフ"}, "is_active": {"true"}},
		"resume.txt", "text/plain", []byte("not a pdf"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, jobService.ErrNotPDF.Error())
	assert.Contains(t, body, `value="経理スタッフ"`)

	assert.Zero(t, env.bucket.Uploads)
	rows, err := env.jobs.List(context.Background(), store.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestJobForm_PDFLifecycle(t *testing.T) {
	env := newTestEnv(t, "production")
	b := env.browser(t)
	b.login()
	ctx := context.Background()

	resp := b.postMultipart("/admin/jobs/new", url.Values{
		"title":           {"施工管理"},
		"company":         {"  "},
		"employment_type": {"full_time"},
		"is_active":       {"true"},
	}, "求人票.pdf", "application/pdf", samplePDF)
	assertRedirect(t, resp, helper.DashboardPath)

	rows, err := env.jobs.List(ctx, store.ListOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	job := rows[0]
	require.NotNil(t, job.PDFURL)
	assert.Equal(t, "求人票.pdf", *job.PDFFilename)
	assert.Nil(t, job.Company, "blank optional text is stored as NULL")
	assert.True(t, job.IsActive)
	_, stored := env.bucket.Get(*job.PDFStorageKey)
	assert.True(t, stored)

	resp = b.postForm("/admin/jobs/edit/"+job.ID.String()+"/pdf/delete", nil)
	assertRedirect(t, resp, "/admin/jobs/edit/"+job.ID.String())

	after, err := env.jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Nil(t, after.PDFURL)
	assert.Nil(t, after.PDFFilename)
	assert.Nil(t, after.PDFStorageKey)
	assert.Empty(t, env.bucket.Keys())
}

func TestJobForm_UncheckedActiveDeactivates(t *testing.T) {
	env := newTestEnv(t, "production")
	seedJobs(t, env)
	b := env.browser(t)
	b.login()
	ctx := context.Background()

	job := findJob(t, env, "営業職")

	resp := b.postMultipart("/admin/jobs/edit/"+job.ID.String(), url.Values{"title": {"営業職"}}, "", "", nil)
	assertRedirect(t, resp, helper.DashboardPath+"?notice="+helper.NoticeJobSaved)

	got, err := env.jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Nil(t, got.Company)
}

/* ==========================
   JSON API
========================== */

func apiLogin(t *testing.T, env *testEnv) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"`+adminEmail+`","password":"`+adminPassword+`"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, sonic.UnmarshalString(readBody(t, resp), &out))
	require.NotEmpty(t, out.Data.AccessToken)
	return out.Data.AccessToken
}

func apiCall(t *testing.T, env *testEnv, method, path, token, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAPI_EventPatchLeavesOtherFields(t *testing.T) {
	env := newTestEnv(t, "production")
	token := apiLogin(t, env)

	assert.Equal(t, fiber.StatusUnauthorized, apiCall(t, env, http.MethodGet, "/api/a/events", "", "").StatusCode)

	resp := apiCall(t, env, http.MethodPost, "/api/a/events", token,
		`{"title":"第15回 総会","description":"年次総会","date":"2025-04-01","location":"大阪市内ホテル"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, sonic.UnmarshalString(readBody(t, resp), &created))

	resp = apiCall(t, env, http.MethodPatch, "/api/a/events/"+created.Data.ID, token, `{"location":"東京都内ホテル"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = apiCall(t, env, http.MethodGet, "/api/public/events/"+created.Data.ID, "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var got struct {
		Data struct {
			Title    string `json:"title"`
			Date     string `json:"date"`
			Location string `json:"location"`
		} `json:"data"`
	}
	require.NoError(t, sonic.UnmarshalString(readBody(t, resp), &got))
	assert.Equal(t, "第15回 総会", got.Data.Title)
	assert.Equal(t, "2025-04-01", got.Data.Date)
	assert.Equal(t, "東京都内ホテル", got.Data.Location)

	resp = apiCall(t, env, http.MethodPatch, "/api/a/events/"+created.Data.ID, token, `{"title":null}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	require.Equal(t, fiber.StatusOK, apiCall(t, env, http.MethodDelete, "/api/a/events/"+created.Data.ID, token, "").StatusCode)
	assert.Equal(t, fiber.StatusNotFound, apiCall(t, env, http.MethodGet, "/api/public/events/"+created.Data.ID, "", "").StatusCode)
}

func TestAPI_MeAndLogout(t *testing.T) {
	env := newTestEnv(t, "production")
	token := apiLogin(t, env)

	resp := apiCall(t, env, http.MethodGet, "/api/auth/me", token, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), adminEmail)

	require.Equal(t, fiber.StatusOK, apiCall(t, env, http.MethodPost, "/api/auth/logout", token, "").StatusCode)
	assert.Equal(t, fiber.StatusUnauthorized, apiCall(t, env, http.MethodGet, "/api/auth/me", token, "").StatusCode)
}

/* ==========================
   rate limits behind proxies
========================== */

func attempt(t *testing.T, env *testEnv, req *http.Request, forwardedFor string) int {
	t.Helper()
	req.Header.Set(fiber.HeaderXForwardedFor, forwardedFor)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func wrongLogin() *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"`+adminEmail+`","password":"nope"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func wrongUnlock() *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/jobs/unlock", strings.NewReader("password=nope"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return req
}

func TestLimiters_IgnoreForwardedForFromUntrustedClients(t *testing.T) {
	env := newTestEnv(t, "production")

	var login []int
	for i := 0; i < 6; i++ {
		login = append(login, attempt(t, env, wrongLogin(), fmt.Sprintf("203.0.113.%d", i+1)))
	}
	assert.Equal(t, []int{401, 401, 401, 401, 401, 429}, login)

	var unlock []int
	for i := 0; i < 11; i++ {
		unlock = append(unlock, attempt(t, env, wrongUnlock(), fmt.Sprintf("198.51.100.%d", i+1)))
	}
	assert.Equal(t, fiber.StatusUnauthorized, unlock[9])
	assert.Equal(t, fiber.StatusTooManyRequests, unlock[10])
}

func TestLimiters_TrustConfiguredProxies(t *testing.T) {
	env := newTestEnv(t, "production", func(s *configs.Settings) {
		s.TrustedProxies = []string{"0.0.0.0/0"}
	})

	for i := 0; i < 6; i++ {
		assert.Equal(t, fiber.StatusUnauthorized, attempt(t, env, wrongLogin(), fmt.Sprintf("203.0.113.%d", i+1)))
	}
	// One client behind the proxy is still limited.
	for i := 0; i < 5; i++ {
		attempt(t, env, wrongLogin(), "192.0.2.7")
	}
	assert.Equal(t, fiber.StatusTooManyRequests, attempt(t, env, wrongLogin(), "192.0.2.7"))
}

/* ==========================
   ops pages
========================== */

func TestHealth(t *testing.T) {
	env := newTestEnv(t, "production")
	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"status":"OK"`)
}

func TestSetupPage_DevelopmentOnly(t *testing.T) {
	prod := newTestEnv(t, "production")
	assert.Equal(t, fiber.StatusNotFound, prod.browser(t).get("/admin/setup").StatusCode)

	dev := newTestEnv(t, "development")
	resp := dev.browser(t).get("/admin/setup")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "JWT_SECRET")
	assert.NotContains(t, body, "test-secret", "secrets are masked")
	assert.NotContains(t, body, jobsPassword)
}

func TestUnknownPage_RendersErrorPage(t *testing.T) {
	env := newTestEnv(t, "production")
	resp := env.browser(t).get("/no-such-page")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "ページが見つかりませんでした。")
}
