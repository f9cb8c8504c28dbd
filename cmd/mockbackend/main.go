// mockbackend is a stub inference backend speaking the prompt-in/text-out
// contract, for running the gateway end to end without real credentials.
package main

import (
	"flag"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type runRequest struct {
	Prompt      string  `json:"prompt"`
	Temperature float32 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

type runUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type runResponse struct {
	Response string   `json:"response"`
	Usage    runUsage `json:"usage"`
}

func main() {
	port := flag.String("port", "8001", "Port to run the server on")
	flag.Parse()

	r := gin.Default()

	// Any model id is accepted; the path suffix is the model.
	r.POST("/*model", func(c *gin.Context) {
		var req runRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		model := strings.TrimPrefix(c.Param("model"), "/")
		c.JSON(http.StatusOK, runResponse{
			Response: "This is a canned response from " + model,
			Usage: runUsage{
				PromptTokens:     len(strings.Fields(req.Prompt)),
				CompletionTokens: 7,
			},
		})
	})

	if err := r.Run(":" + *port); err != nil {
		log.Fatal(err)
	}
}
