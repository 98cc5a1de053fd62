// Package devserver implements the blog HTTP API the goBlog client talks to,
// for local development and end-to-end tests.
//
// Routes:
//
//	POST   /api/login       {username,password} -> {accessToken,refreshToken,message}
//	GET    /api/me          bearer -> {username,email,id}
//	GET    /api/blog        -> [post]
//	GET    /api/blog/{id}   -> post
//	POST   /api/blog        bearer, {title,content,author} -> post
//	PUT    /api/blog/{id}   bearer, owner only -> post
//	DELETE /api/blog/{id}   bearer, owner only -> 204
//
// Users are held in memory with argon2id hashes. Posts live in Redis. Failed
// logins are throttled per username and per IP.
package devserver
