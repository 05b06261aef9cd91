//Package web serves the status/dashboard surface: a plain status page plus a
//small JSON API over the swap rules. It goes through the same rule store and
//synchronous-save path as the chat commands and never mutates roles itself.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"roleswap/rules"
	"roleswap/store"
)

//Server wraps the HTTP listener around the rule store.
type Server struct {
	rules *store.Store
	srv   *http.Server
}

//Start serves the dashboard on addr in a background goroutine.
func Start(addr string, st *store.Store) *Server {
	res := Server{rules: st}
	res.srv = &http.Server{
		Addr:    addr,
		Handler: newRouter(st),
	}
	go func() {
		logrus.Infof("Status server listening on %v", addr)
		if err := res.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("Status server failed due to error %v", err)
		}
	}()
	return &res
}

//Close shuts the listener down, letting in-flight requests finish.
func (s *Server) Close() {
	logrus.Info("Terminating status server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		logrus.Warnf("Status server did not shut down cleanly: %v", err)
	}
}

func newRouter(st *store.Store) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	h := handlers{rules: st}
	router.GET("/", h.status)
	router.GET("/swaps", h.listSwaps)
	router.POST("/swaps", h.addSwap)
	router.DELETE("/swaps/:id", h.deleteSwap)
	return router
}

type handlers struct {
	rules *store.Store
}

func (h handlers) status(c *gin.Context) {
	stats := h.rules.Snapshot()
	c.String(http.StatusOK, "RoleSwapBot is running! %v swap rules, %v welcome roles, %v reaction bindings.",
		stats.SwapRules, stats.WelcomeRoles, stats.ReactionBindings)
}

func (h handlers) listSwaps(c *gin.Context) {
	guild := c.Query("guild")
	var swaps []rules.SwapRule
	if guild == "" {
		swaps = h.rules.AllSwapRules()
	} else {
		swaps = h.rules.ListSwapRules(guild)
	}
	if swaps == nil {
		swaps = []rules.SwapRule{}
	}
	c.JSON(http.StatusOK, swaps)
}

type addSwapRequest struct {
	Guild   string `json:"guild" binding:"required"`
	Trigger string `json:"trigger" binding:"required"`
	Remove  string `json:"remove" binding:"required"`
}

func (h handlers) addSwap(c *gin.Context) {
	var req addSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	index, err := h.rules.AddSwapRule(req.Guild, rules.RoleRef{ID: req.Trigger}, rules.RoleRef{ID: req.Remove})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	resp := gin.H{
		"message": fmt.Sprintf("Added swap for guild %v: gaining %v removes %v", req.Guild, req.Trigger, req.Remove),
		"index":   index,
	}
	if err := h.rules.Save(); err != nil {
		logrus.Warnf("Failed to persist rule added over HTTP due to error %v", err)
		resp["warning"] = "the rule file could not be written, so the rule will be lost on restart"
	}
	c.JSON(http.StatusOK, resp)
}

func (h handlers) deleteSwap(c *gin.Context) {
	guild := c.Query("guild")
	if guild == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guild query parameter is required"})
		return
	}
	removed, err := h.rules.RemoveSwapRuleByID(guild, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	resp := gin.H{"removed": removed}
	if err := h.rules.Save(); err != nil {
		logrus.Warnf("Failed to persist rule removal over HTTP due to error %v", err)
		resp["warning"] = "the rule file could not be written, so the rule will reappear on restart"
	}
	c.JSON(http.StatusOK, resp)
}
