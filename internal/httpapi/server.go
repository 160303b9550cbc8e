// Package httpapi is the embedding layer over the gateway session. The
// session performs no internal locking, so every handler here takes the one
// server mutex for the full duration of the call, LastError read included.
package httpapi

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/finbridge/mt4-gateway/internal/gate"
)

type Server struct {
	mu      sync.Mutex
	session *gate.Session
	bufSize int
	engine  *gin.Engine
}

func New(session *gate.Session, bufSize int) *Server {
	s := &Server{
		session: session,
		bufSize: bufSize,
		engine:  gin.Default(),
	}

	r := s.engine
	r.POST("/session/connect", s.connect)
	r.POST("/session/login", s.login)
	r.POST("/session/disconnect", s.disconnect)
	r.GET("/session/status", s.status)
	r.GET("/session/ping", s.ping)

	r.GET("/accounts", s.listAccounts)
	r.GET("/accounts/:login", s.getAccount)
	r.POST("/accounts", s.createAccount)
	r.PUT("/accounts/:login", s.updateAccount)
	r.DELETE("/accounts/:login", s.disableAccount)

	r.GET("/orders", s.listOrders)
	r.POST("/orders", s.openOrder)
	r.DELETE("/orders/:ticket", s.closeOrder)

	r.GET("/symbols", s.listInstruments)
	r.GET("/quotes/:symbol", s.getQuote)

	return s
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func httpStatus(st gate.Status) int {
	switch st {
	case gate.OK:
		return http.StatusOK
	case gate.StatusInvalidParameter:
		return http.StatusBadRequest
	case gate.StatusNotInitialized, gate.StatusAlreadyInitialized, gate.StatusNotConnected:
		return http.StatusConflict
	case gate.StatusBufferTooSmall:
		return http.StatusRequestEntityTooLarge
	case gate.StatusConnectionFailed, gate.StatusLoginFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail renders the gateway error. Callers must hold s.mu so the LastError
// read belongs to the failed operation.
func (s *Server) fail(c *gin.Context, err error) {
	st := gate.StatusOf(err)
	c.JSON(httpStatus(st), gin.H{"status": int(st), "error": s.session.LastError()})
}

func (s *Server) connect(c *gin.Context) {
	var req struct {
		Server string `json:"server"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid connect payload"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.Connect(req.Server); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": s.session.IsConnected()})
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Login    int    `json:"login"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login payload"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.Login(req.Login, req.Password); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"login": req.Login})
}

func (s *Server) disconnect(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.Disconnect(); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"disconnected": true})
}

func (s *Server) status(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"initialized": s.session.Initialized(),
		"connected":   s.session.IsConnected(),
		"last_error":  s.session.LastError(),
	})
}

func (s *Server) ping(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.Ping(); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ping": "ok"})
}

func (s *Server) listAccounts(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, s.bufSize)
	n, err := s.session.ListAccounts(buf)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", buf[:n])
}

func (s *Server) getAccount(c *gin.Context) {
	login, err := strconv.Atoi(c.Param("login"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, s.bufSize)
	n, gerr := s.session.GetAccount(login, buf)
	if gerr != nil {
		s.fail(c, gerr)
		return
	}
	c.Data(http.StatusOK, "application/json", buf[:n])
}

func (s *Server) createAccount(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account payload"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, s.bufSize)
	n, gerr := s.session.CreateAccount(string(body), buf)
	if gerr != nil {
		s.fail(c, gerr)
		return
	}
	c.Data(http.StatusOK, "application/json", buf[:n])
}

func (s *Server) updateAccount(c *gin.Context) {
	login, err := strconv.Atoi(c.Param("login"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login"})
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account payload"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gerr := s.session.UpdateAccount(login, string(body)); gerr != nil {
		s.fail(c, gerr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": login})
}

func (s *Server) disableAccount(c *gin.Context) {
	login, err := strconv.Atoi(c.Param("login"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gerr := s.session.DisableAccount(login); gerr != nil {
		s.fail(c, gerr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"disabled": login})
}

func (s *Server) listOrders(c *gin.Context) {
	login := 0
	if v := c.Query("login"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login"})
			return
		}
		login = parsed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, s.bufSize)
	n, err := s.session.ListOrders(login, buf)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", buf[:n])
}

func (s *Server) openOrder(c *gin.Context) {
	var req struct {
		Login      int     `json:"login"`
		Symbol     string  `json:"symbol"`
		Cmd        int     `json:"cmd"`
		Lots       float64 `json:"lots"`
		Price      float64 `json:"price"`
		StopLoss   float64 `json:"stop_loss"`
		TakeProfit float64 `json:"take_profit"`
		Comment    string  `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order payload"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, s.bufSize)
	n, err := s.session.OpenOrder(req.Login, req.Symbol, req.Cmd, req.Lots, req.Price, req.StopLoss, req.TakeProfit, req.Comment, buf)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", buf[:n])
}

func (s *Server) closeOrder(c *gin.Context) {
	ticket, err := strconv.Atoi(c.Param("ticket"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ticket"})
		return
	}
	lots, _ := strconv.ParseFloat(c.DefaultQuery("lots", "0"), 64)
	price, _ := strconv.ParseFloat(c.DefaultQuery("price", "0"), 64)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gerr := s.session.CloseOrder(ticket, lots, price); gerr != nil {
		s.fail(c, gerr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"closed": ticket})
}

func (s *Server) listInstruments(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, s.bufSize)
	n, err := s.session.ListInstruments(buf)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", buf[:n])
}

func (s *Server) getQuote(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, s.bufSize)
	n, err := s.session.GetQuote(c.Param("symbol"), buf)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", buf[:n])
}
