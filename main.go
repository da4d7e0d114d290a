package main

import (
	auth "Alutherm/internal/auth"
	alloy "Alutherm/internal/calc/alloy"
	batch "Alutherm/internal/calc/premium/batch"
	importer "Alutherm/internal/calc/premium/importer"
	ratio "Alutherm/internal/calc/ratio"
	reduce "Alutherm/internal/calc/reduce"
	report "Alutherm/internal/calc/report"
	sweep "Alutherm/internal/calc/sweep"
	export "Alutherm/internal/export"
	factsage "Alutherm/internal/factsage"
	pay "Alutherm/internal/pay"
	preset "Alutherm/internal/preset"
	profile "Alutherm/internal/profile"
	repo "Alutherm/internal/repo"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"log"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*") //у меня нет домена это тестовый сервер
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(mux *mux.Router, db *sql.DB) {
	userRepo := repo.NewPostgresUserDB(db)
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
	// Load TOKEN_KEY from environment
	tokenKey := os.Getenv("TOKEN_KEY")
	if tokenKey == "" {
		log.Fatal("TOKEN_KEY environment variable is not set")
	}

	authEnv := &auth.Authenv{JWTkey: []byte(tokenKey), Repo: userRepo}
	profileH := &profile.ProfileHandler{Repo: userRepo}

	limiter := auth.NewIPRateLimiter(1, 3)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	secureApi.HandleFunc("/profile", profileH.GetProfile).Methods("GET")
	secureApi.HandleFunc("/profile", profileH.UpdateProfile).Methods("PATCH", "PUT")
	secureApi.HandleFunc("/profile/{id:[0-9]+}", profileH.GetProfile).Methods("GET")
	secureApi.HandleFunc("/upload-avatar", profileH.UploadAvatar).Methods("POST")

	secureApi.HandleFunc("/compositions", profileH.SaveComposition).Methods("POST")
	secureApi.HandleFunc("/compositions", profileH.ListCompositions).Methods("GET")
	secureApi.HandleFunc("/compositions/{id:[0-9]+}", profileH.DeleteComposition).Methods("DELETE")

	reduceH := &reduce.Handler{}
	ratioH := &ratio.Handler{}
	sweepH := &sweep.Handler{}
	reportH := &report.Handler{}
	exportH := &export.Handler{}
	factsageH := &factsage.Handler{}
	presetH := &preset.Handler{}
	batchH := &batch.Handler{}
	importerH := &importer.Handler{}

	secureApi.HandleFunc("/tools/reduce/calc", reduceH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/ratio/calc", ratioH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/sweep/calc", sweepH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/sweep/export/csv", exportH.CSV).Methods("POST")
	secureApi.HandleFunc("/tools/sweep/export/xlsx", exportH.XLSX).Methods("POST")
	secureApi.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")
	secureApi.HandleFunc("/tools/factsage/analyze", factsageH.Analyze).Methods("POST")
	secureApi.HandleFunc("/tools/presets", presetH.List).Methods("GET")

	// Alloy grade table for an already-known Si/Fe yield.
	secureApi.HandleFunc("/tools/alloy/calc", func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			SiG float64 `json:"si_g"`
			FeG float64 `json:"fe_g"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(alloy.Calculate(input.SiG, input.FeG))
	}).Methods("POST")

	premiumApi := secureApi.PathPrefix("/premium").Subrouter()
	premiumApi.Use(authEnv.PremiumMiddleware)
	premiumApi.HandleFunc("/batch/reduce", batchH.Reduce).Methods("POST")
	premiumApi.HandleFunc("/import/reduce", importerH.Reduce).Methods("POST")

	payClient := pay.NewClient(os.Getenv("PAY_TERMINAL_KEY"), os.Getenv("PAY_PASSWORD"))
	payH := &pay.Handler{Client: payClient, Repo: userRepo}
	secureApi.HandleFunc("/premium/buy", payH.BuyPremium).Methods("POST")
	secureApi.HandleFunc("/premium/status", payH.PaymentStatus).Methods("GET")

	authFileServer := http.FileServer(http.Dir("./static/auth"))
	mux.PathPrefix("/auth/").
		Handler(authEnv.RedirectIfLoggedIn(http.StripPrefix("/auth", authFileServer)))
	mux.PathPrefix("/uploads/").
		Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir("./static/uploads/"))))
	profileFileServer := http.FileServer(http.Dir("./static/profile"))
	mux.Handle("/profile/{id:[0-9]+}", authEnv.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./static/profile/index.html")
	})))
	mux.PathPrefix("/profile/").
		Handler(authEnv.AuthMiddleware(http.StripPrefix("/profile", profileFileServer)))
	mainFileServer := http.FileServer(http.Dir("./static/main"))
	mux.PathPrefix("/").
		Handler(mainFileServer)

}
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db := auth.InitDB()
	defer db.Close()
	mux := mux.NewRouter()
	log.Println("Starting server on :443")
	HandleList(mux, db)
	handler := CORS(mux)

	server := &http.Server{
		Addr:    ":443",
		Handler: handler,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.ListenAndServeTLS("server.crt", "server.key"); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Shutdown signal received!")
	fmt.Println("Закрытие активных соединений")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Ошибка при остановке сервера: %v", err)
	}
	log.Println("Сервер успешно остановлен")

	wg.Wait()
}
