// ABOUTME: Starter document for editor sessions opened without a document
// ABOUTME: A single-page landing template styled with the Tailwind CDN

package editor

// StarterDocument seeds sessions that start without a document
const StarterDocument = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>My Website</title>
    <script src="https://cdn.tailwindcss.com"></script>
</head>
<body class="bg-gray-100 min-h-screen flex items-center justify-center">
    <div class="bg-white p-8 rounded-lg shadow-lg text-center">
        <h1 class="text-4xl font-bold text-indigo-600 mb-4">Hello, world</h1>
        <p class="text-gray-600">Welcome to my personal page.</p>
    </div>
</body>
</html>`
