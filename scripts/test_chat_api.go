package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // No timeout: ingestion polls can run long
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func uploadFiles(url string, files map[string][]byte) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			return nil, nil, err
		}
		if _, err := part.Write(data); err != nil {
			return nil, nil, err
		}
	}
	writer.Close()

	req, err := http.NewRequest("POST", baseURL+url, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func show(resp *http.Response, body []byte) {
	color.Green("Status: %s", resp.Status)
	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		fmt.Println(string(body))
		return
	}
	prettyPrint(parsed)
}

func main() {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		color.Red("GOOGLE_GEMINI_API_KEY is required for this walkthrough")
		os.Exit(1)
	}

	color.Cyan("🚀 Starting Chatbot API Walkthrough\n")

	// 1. Status before anything is configured
	color.Yellow("\n[CHATBOT] 1. Get Status")
	resp, body, err := sendRequest("GET", "/chatbot/v1/status", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	show(resp, body)

	// 2. Validate the API key
	color.Yellow("\n[ADMIN] 2. Validate API Key")
	resp, body, err = sendRequest("POST", "/admin/v1/validate-key", map[string]string{"api_key": apiKey})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	show(resp, body)

	// 3. Save the API key
	color.Yellow("\n[ADMIN] 3. Save API Key")
	resp, body, err = sendRequest("POST", "/admin/v1/key", map[string]string{"api_key": apiKey})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	show(resp, body)

	// 4. Rebuild the knowledgebase from two tiny documents
	color.Yellow("\n[ADMIN] 4. Rebuild Knowledgebase (2 documents)")
	resp, body, err = uploadFiles("/admin/v1/knowledgebase", map[string][]byte{
		"event_guide.txt": []byte("The charity run starts at 7 AM at Riverside Park. Registration closes June 1st."),
		"faq.txt":         []byte("Participants get a shirt and a medal. Dogs on leashes are welcome."),
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	show(resp, body)

	// 5. List the ingested documents
	color.Yellow("\n[ADMIN] 5. List Documents")
	resp, body, err = sendRequest("GET", "/admin/v1/knowledgebase/documents", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	show(resp, body)

	// 6. Create a chat session
	color.Yellow("\n[CHATBOT] 6. Create Session")
	resp, body, err = sendRequest("POST", "/chatbot/v1/create-session", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	show(resp, body)

	var sessionResp struct {
		Data struct {
			Id string `json:"id"`
		} `json:"data"`
	}
	json.Unmarshal(body, &sessionResp)
	sessionId := sessionResp.Data.Id

	// 7. Ask a grounded question
	color.Yellow("\n[CHATBOT] 7. Send Chat")
	resp, body, err = sendRequest("POST", "/chatbot/v1/send-chat", map[string]string{
		"chat_session_id": sessionId,
		"chat":            "What time does the run start?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	show(resp, body)

	// 8. Fetch the transcript
	color.Yellow("\n[CHATBOT] 8. Get History")
	resp, body, err = sendRequest("GET", "/chatbot/v1/session/"+sessionId+"/history", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	show(resp, body)

	// 9. Suggested questions (vendor-generated after rebuild)
	color.Yellow("\n[CHATBOT] 9. Get Suggested Questions")
	resp, body, err = sendRequest("GET", "/chatbot/v1/suggested-questions", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	show(resp, body)

	color.Cyan("\n✅ Walkthrough complete")
}
