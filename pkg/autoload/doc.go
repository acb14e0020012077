// Package autoload resolves PHP class names to the files that define them,
// following the PSR-4 and PSR-0 maps Composer writes into
// vendor/composer/installed.json and the project's own composer.json.
//
// Files inside vendor are reported the way Composer's generated autoloader
// reports them: relative to vendor/composer and joined without cleaning,
// e.g. /app/vendor/composer/../foo/bar/src/Baz.php. The classify package
// relies on that shape.
package autoload
