package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-prep/internal/services"
)

type Routes struct {
	Users     services.UserService
	Auth      *AuthHandler
	Resumes   *ResumeHandler
	Interview *InterviewHandler
}

// Endpoints lists every route RegisterRoutes mounts, for the index page.
var Endpoints = []string{
	"POST /register",
	"POST /token",
	"GET /profile",
	"PUT /profile",
	"GET /companies",
	"POST /upload",
	"POST /upload-user-resume",
	"GET /user-resumes",
	"DELETE /delete-resume/:filename",
	"POST /use-existing-resume",
	"GET /view-resume/:filename",
	"POST /analyze-video",
	"POST /next-question",
}

func RegisterRoutes(app fiber.Router, r Routes) {
	authed := RequireAuth(r.Users, false)

	app.Post("/register", r.Auth.HandleRegister)
	app.Post("/token", r.Auth.HandleToken)
	app.Get("/profile", authed, r.Auth.HandleGetProfile)
	app.Put("/profile", authed, r.Auth.HandleUpdateProfile)

	app.Get("/companies", r.Interview.HandleCompanies)

	app.Post("/upload", authed, r.Resumes.HandleUpload)
	app.Post("/upload-user-resume", authed, r.Resumes.HandleUploadUserResume)
	app.Get("/user-resumes", authed, r.Resumes.HandleListResumes)
	app.Delete("/delete-resume/:filename", authed, r.Resumes.HandleDeleteResume)
	app.Post("/use-existing-resume", authed, r.Resumes.HandleUseExistingResume)
	app.Get("/view-resume/:filename", RequireAuth(r.Users, true), r.Resumes.HandleViewResume)

	app.Post("/analyze-video", authed, r.Interview.HandleAnalyzeVideo)
	app.Post("/next-question", authed, r.Interview.HandleNextQuestion)
}
