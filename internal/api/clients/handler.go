package clients

import (
	"net/http"
	"time"

	"coachplan-app/database"
	"coachplan-app/internal/domain/clients"
	"coachplan-app/internal/domain/entitlement"
	"coachplan-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

func userClientsQuery(db *gorm.DB, userID uint) *gorm.DB {
	return db.Model(&clients.Client{}).Where("user_id = ?", userID)
}

// ownedClient loads a client and enforces roster ownership in one shot.
func ownedClient(c *gin.Context, userID uint) (*clients.Client, bool) {
	var client clients.Client
	if err := database.DB.
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		First(&client).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return nil, false
	}
	return &client, true
}

func ListClients(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var list []clients.Client
	if err := userClientsQuery(database.DB, userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load clients"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func CreateClient(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var input ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	// roster cap depends on tier; trials get the trial cap
	ent := entitlement.Derive(time.Now(), user)
	limit := entitlement.ClientLimitFor(ent, user.SubscriptionTier)
	if limit != entitlement.ClientLimitUnlimited {
		var count int64
		if err := userClientsQuery(database.DB, userID).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count clients"})
			return
		}
		if count >= int64(limit) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Client limit reached for your plan",
				"limit": limit,
			})
			return
		}
	}

	client := clients.Client{
		UserID:   userID,
		Name:     input.Name,
		Lastname: input.Lastname,
		Email:    input.Email,
		Goal:     input.Goal,
		Notes:    input.Notes,
	}

	if err := database.DB.Create(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
		return
	}

	c.JSON(http.StatusCreated, client)
}

func GetClient(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	client, ok := ownedClient(c, userID)
	if !ok {
		return
	}

	var programs []clients.ProgramDoc
	if err := database.DB.
		Where("client_id = ?", client.ID).
		Order("updated_at DESC").
		Find(&programs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load programs"})
		return
	}
	client.Programs = programs

	c.JSON(http.StatusOK, client)
}

func UpdateClient(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	client, ok := ownedClient(c, userID)
	if !ok {
		return
	}

	var input ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"name":     input.Name,
		"lastname": input.Lastname,
		"email":    input.Email,
		"goal":     input.Goal,
		"notes":    input.Notes,
	}

	if err := database.DB.Model(client).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
		return
	}

	c.JSON(http.StatusOK, client)
}

func DeleteClient(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	client, ok := ownedClient(c, userID)
	if !ok {
		return
	}

	if err := database.DB.Delete(client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
}

/* ---------- programs ---------- */

func CreateProgram(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	client, ok := ownedClient(c, userID)
	if !ok {
		return
	}

	var input ProgramInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := input.Status
	if status == "" {
		status = clients.ProgramDraft
	}
	if status != clients.ProgramDraft && status != clients.ProgramFinal {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be draft or final"})
		return
	}

	content := input.Content
	if len(content) == 0 {
		content = []byte(`{}`)
	}

	program := clients.ProgramDoc{
		ClientID: client.ID,
		Title:    input.Title,
		Content:  content,
		Status:   status,
	}

	if err := database.DB.Create(&program).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create program"})
		return
	}

	c.JSON(http.StatusCreated, program)
}

func UpdateProgram(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	// program ownership goes through the client's user_id
	var program clients.ProgramDoc
	if err := database.DB.
		Joins("JOIN clients ON clients.id = program_docs.client_id").
		Where("program_docs.id = ? AND clients.user_id = ?", c.Param("id"), userID).
		First(&program).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}

	var input ProgramInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"title": input.Title,
	}
	if len(input.Content) > 0 {
		updates["content"] = input.Content
	}
	if input.Status != "" {
		if input.Status != clients.ProgramDraft && input.Status != clients.ProgramFinal {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be draft or final"})
			return
		}
		updates["status"] = input.Status
	}

	if err := database.DB.Model(&program).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update program"})
		return
	}

	c.JSON(http.StatusOK, program)
}

func DeleteProgram(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var program clients.ProgramDoc
	if err := database.DB.
		Joins("JOIN clients ON clients.id = program_docs.client_id").
		Where("program_docs.id = ? AND clients.user_id = ?", c.Param("id"), userID).
		First(&program).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}

	if err := database.DB.Delete(&program).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete program"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Program deleted"})
}
