package email

import (
	"fmt"

	"larder/internal/models"
)

func (s *Service) generateWelcomeHTML(user *models.User) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Welcome to Larder</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f8f9fa;
        }
        .container {
            background-color: white;
            padding: 40px;
            border-radius: 12px;
            box-shadow: 0 2px 10px rgba(0, 0, 0, 0.1);
        }
        .header {
            text-align: center;
            margin-bottom: 30px;
        }
        .logo {
            font-size: 28px;
            font-weight: bold;
            color: #b3541e;
            margin-bottom: 10px;
        }
        .welcome-message {
            font-size: 24px;
            color: #b3541e;
            margin-bottom: 20px;
        }
        .content {
            font-size: 16px;
            margin-bottom: 30px;
        }
        .footer {
            margin-top: 40px;
            padding-top: 20px;
            border-top: 1px solid #e9ecef;
            font-size: 14px;
            color: #6c757d;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <div class="logo">Larder</div>
            <div class="welcome-message">Welcome %s!</div>
        </div>

        <div class="content">
            <p>Thank you for joining Larder, your kitchen inventory and recipe companion!</p>

            <p>With Larder, you can:</p>
            <ul>
                <li>🥦 Keep track of everything in your pantry</li>
                <li>🍲 Discover recipes built around what you already have</li>
                <li>🛒 Turn missing ingredients into a shopping list</li>
            </ul>
        </div>

        <div class="footer">
            <p>Happy cooking!</p>
            <p>The Larder Team</p>
        </div>
    </div>
</body>
</html>`, user.Username)
}

func (s *Service) generateWelcomeText(user *models.User) string {
	return fmt.Sprintf(`Welcome to Larder, %s!

Thank you for joining Larder, your kitchen inventory and recipe companion.

With Larder, you can:
- Keep track of everything in your pantry
- Discover recipes built around what you already have
- Turn missing ingredients into a shopping list

Happy cooking!
The Larder Team`, user.Username)
}
