package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/aieta/internal/api/handlers"
	"github.com/yoockh/aieta/internal/api/middleware"
)

type Deps struct {
	Candidate  *handlers.CandidateHandler
	Interview  *handlers.InterviewHandler
	Answer     *handlers.AnswerHandler
	TTS        *handlers.TTSHandler
	STT        *handlers.STTHandler
	Coding     *handlers.CodingHandler
	Preprocess *handlers.PreprocessHandler
	Report     *handlers.ReportHandler
	Health     *handlers.HealthHandler
	WS         *handlers.WSHandler

	Logger         *logrus.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestLogger(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.CORS(d.AllowedOrigins),
	)
	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/", d.Health.Root)
	r.GET("/health", d.Health.Health)

	// websocket streams outlive the request timeout
	if d.WS != nil {
		r.GET("/ws/preprocess/:candidate_id", d.WS.PreprocessWS)
	}

	api := r.Group("/")
	api.Use(middleware.Timeout(d.RequestTimeout))

	api.GET("/candidates", d.Candidate.List)
	api.GET("/candidate/:id", d.Candidate.Get)
	api.GET("/candidate/:id/score", d.Candidate.Score)

	api.POST("/interview/setup", d.Interview.Setup)
	api.POST("/interview/complete-and-save", d.Interview.CompleteAndSave)
	api.DELETE("/interview/:id", d.Interview.Delete)
	api.GET("/statistics", d.Interview.Statistics)

	api.POST("/answer/submit", d.Answer.Submit)
	api.POST("/answer/follow-up", d.Answer.FollowUp)
	api.GET("/answer/history/:id", d.Answer.History)

	api.POST("/tts/speak-base64", d.TTS.SpeakBase64)
	api.GET("/tts/speak/:id/:n", d.TTS.SpeakFile)
	api.POST("/stt/transcribe", d.STT.Transcribe)

	api.POST("/coding/submit", d.Coding.Submit)
	api.GET("/coding/:id/latest", d.Coding.Latest)

	api.POST("/store-questions", d.Preprocess.StoreQuestions)
	api.GET("/preprocess/:candidate_id/status", d.Preprocess.Status)

	api.GET("/report/:id", d.Report.HTML)
	api.GET("/report/:id/xlsx", d.Report.XLSX)
}
