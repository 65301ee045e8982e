package controller

import (
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"

	eventModel "kizuna_web/internals/features/content/events/model"
	jobModel "kizuna_web/internals/features/content/jobs/model"
	jobService "kizuna_web/internals/features/content/jobs/service"
	newsModel "kizuna_web/internals/features/content/news/model"
	helper "kizuna_web/internals/helpers"
	"kizuna_web/internals/store"
	"kizuna_web/internals/views"
)

type notice struct {
	text     string
	blocking bool
}

var notices = map[string]notice{
	helper.NoticeCreated:  {text: "作成しました。"},
	helper.NoticeUpdated:  {text: "更新しました。"},
	helper.NoticeDeleted:  {text: "削除しました。"},
	helper.NoticeJobSaved: {text: "求人情報を更新しました。", blocking: true},
	helper.NoticeMissing:  {text: "指定されたデータが見つかりませんでした。", blocking: true},
}

type DashboardController struct {
	Events store.Table[eventModel.EventModel]
	News   store.Table[newsModel.NewsModel]
	Jobs   *jobService.JobService
}

func NewDashboardController(events store.Table[eventModel.EventModel], news store.Table[newsModel.NewsModel], jobs *jobService.JobService) *DashboardController {
	return &DashboardController{Events: events, News: news, Jobs: jobs}
}

// GET /admin/dashboard. The three lists load concurrently; each goroutine
// owns its own result and error.
func (ctrl *DashboardController) Show(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var (
		wg                          sync.WaitGroup
		events                      []eventModel.EventModel
		news                        []newsModel.NewsModel
		jobs                        []jobModel.JobModel
		eventsErr, newsErr, jobsErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		events, eventsErr = ctrl.Events.List(ctx, store.ListOptions{OrderBy: "date", Direction: store.Asc})
	}()
	go func() {
		defer wg.Done()
		news, newsErr = ctrl.News.List(ctx, store.ListOptions{OrderBy: "published_date", Direction: store.Desc})
	}()
	go func() {
		defer wg.Done()
		jobs, jobsErr = ctrl.Jobs.ListAll(ctx)
	}()
	wg.Wait()

	data := fiber.Map{
		"Title":  "ダッシュボード",
		"Events": events,
		"News":   news,
		"Jobs":   jobs,
	}
	for key, err := range map[string]error{"EventsError": eventsErr, "NewsError": newsErr, "JobsError": jobsErr} {
		if err != nil {
			log.Printf("[WARN] dashboard %s: %v", key, err)
			data[key] = err.Error()
		}
	}
	if n, ok := notices[c.Query("notice")]; ok {
		if n.blocking {
			data["Blocking"] = n.text
		} else {
			data["Notice"] = n.text
		}
	}
	return views.Admin(c, "dashboard", data)
}
