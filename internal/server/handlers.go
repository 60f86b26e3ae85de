package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/models"
	"github.com/smolder-dev/smolder/internal/metrics"
	"github.com/smolder-dev/smolder/internal/usecase"
)

// InvokeRequest is the body of call and send requests
type InvokeRequest struct {
	Function string `json:"function"`
	Args     []any  `json:"args"`
	Wallet   string `json:"wallet,omitempty"`
	Value    string `json:"value,omitempty"`
}

// DeployRequest is the body of a live artifact deployment
type DeployRequest struct {
	Artifact string `json:"artifact"`
	Network  string `json:"network"`
	Wallet   string `json:"wallet"`
	Args     []any  `json:"args"`
	Value    string `json:"value,omitempty"`
}

// bindJSON decodes the request body keeping numbers exact
func bindJSON(c *gin.Context, dst any) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(c.Request.Body); err != nil {
		return domain.WrapError(domain.KindIO, err, "failed to read request body")
	}
	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return domain.WrapError(domain.KindInvalidParameter, err, "invalid request body")
	}
	return nil
}

func deploymentIDParam(c *gin.Context) (models.DeploymentID, error) {
	id, err := models.ParseDeploymentID(c.Param("id"))
	if err != nil {
		return 0, domain.InvalidParameter("id", "must be a positive integer")
	}
	return id, nil
}

func (s *Server) listNetworks(c *gin.Context) {
	networks, err := s.handlers.ListNetworks.Run(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, networks)
}

func (s *Server) getNetwork(c *gin.Context) {
	network, err := s.handlers.ListNetworks.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, network)
}

func (s *Server) listContracts(c *gin.Context) {
	contracts, err := s.handlers.ListContracts.Run(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (s *Server) getContract(c *gin.Context) {
	contract, err := s.handlers.ListContracts.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (s *Server) listDeployments(c *gin.Context) {
	filter := domain.DefaultDeploymentFilter()
	filter.Network = c.Query("network")
	filter.Contract = c.Query("contract")
	if all, _ := strconv.ParseBool(c.Query("all")); all {
		filter.CurrentOnly = false
	}

	result, err := s.handlers.ListDeployments.Run(c.Request.Context(), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) getDeployment(c *gin.Context) {
	id, err := deploymentIDParam(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	view, err := s.handlers.ShowDeployment.Run(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) getFunctions(c *gin.Context) {
	id, err := deploymentIDParam(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	result, err := s.handlers.InteractContract.Functions(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Functions)
}

func (s *Server) callFunction(c *gin.Context) {
	id, err := deploymentIDParam(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req InvokeRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}

	result, err := s.handlers.InteractContract.Call(c.Request.Context(), usecase.CallParams{
		DeploymentID: id,
		Function:     req.Function,
		Args:         req.Args,
	})
	if err != nil {
		metrics.ContractCalls.WithLabelValues("read", string(models.CallStatusFailed)).Inc()
		s.writeError(c, err)
		return
	}
	metrics.ContractCalls.WithLabelValues("read", string(models.CallStatusSuccess)).Inc()
	c.JSON(http.StatusOK, gin.H{
		"function": result.Function.Signature,
		"result":   result.Result,
	})
}

func (s *Server) sendTransaction(c *gin.Context) {
	id, err := deploymentIDParam(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req InvokeRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}

	result, err := s.handlers.InteractContract.Send(c.Request.Context(), usecase.SendParams{
		DeploymentID: id,
		Function:     req.Function,
		Args:         req.Args,
		Wallet:       req.Wallet,
		Value:        req.Value,
	})
	if result != nil {
		metrics.ContractCalls.WithLabelValues("write", string(result.Status)).Inc()
	} else if err != nil {
		metrics.ContractCalls.WithLabelValues("write", string(models.CallStatusFailed)).Inc()
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) getHistory(c *gin.Context) {
	id, err := deploymentIDParam(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.writeError(c, domain.InvalidParameter("limit", "must be a non-negative integer"))
			return
		}
	}

	records, err := s.handlers.InteractContract.History(c.Request.Context(), id, limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) listArtifacts(c *gin.Context) {
	artifacts, err := s.handlers.ListArtifacts.Run(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, artifacts)
}

func (s *Server) getArtifact(c *gin.Context) {
	artifact, err := s.handlers.ShowArtifact.Run(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, artifact)
}

func (s *Server) deploy(c *gin.Context) {
	var req DeployRequest
	if err := bindJSON(c, &req); err != nil {
		s.writeError(c, err)
		return
	}

	result, err := s.handlers.DeployArtifact.Run(c.Request.Context(), usecase.DeployArtifactParams{
		Artifact: req.Artifact,
		Network:  req.Network,
		Wallet:   req.Wallet,
		Args:     req.Args,
		Value:    req.Value,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	metrics.DeploymentsRecorded.WithLabelValues(metrics.SourceArtifact).Inc()
	c.JSON(http.StatusCreated, result)
}

func (s *Server) listWallets(c *gin.Context) {
	wallets, err := s.handlers.ManageWallets.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, wallets)
}
